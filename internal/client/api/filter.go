package api

import (
	"strings"

	"github.com/medicnotes/medicnotes/internal/models"
)

// The dashboards filter over the already-fetched slice rather than
// re-querying the backend.

func matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// FilterAdmins narrows admins by a name/email/phone substring and an exact
// status. Empty arguments match everything.
func FilterAdmins(admins []models.Admin, query, status string) []models.Admin {
	var out []models.Admin
	for _, a := range admins {
		if !matches(query, a.Name, a.Email, a.Phone) {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FilterDoctors narrows doctors by substring, status, and specialization.
func FilterDoctors(doctors []models.Doctor, query, status, specialization string) []models.Doctor {
	var out []models.Doctor
	for _, d := range doctors {
		if !matches(query, d.Name, d.Email, d.Phone) {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		if specialization != "" && !strings.EqualFold(d.Specialization, specialization) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FilterPatients narrows patients by substring and status.
func FilterPatients(patients []models.Patient, query, status string) []models.Patient {
	var out []models.Patient
	for _, p := range patients {
		if !matches(query, p.Name, p.Email, p.Phone) {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out
}
