package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medicnotes/medicnotes/internal/models"
)

// DirectoryService is the directory surface the handlers call into.
// Implemented by service.DirectoryService.
type DirectoryService interface {
	RegisterAdmin(ctx context.Context, a models.Admin) (int64, error)
	Admins(ctx context.Context) ([]models.Admin, error)
	AdminByID(ctx context.Context, id int64) (models.Admin, error)
	AdminByEmail(ctx context.Context, email string) (models.Admin, error)
	AdminCount(ctx context.Context) (int64, error)
	DeleteAdmin(ctx context.Context, id int64) error

	RegisterDoctor(ctx context.Context, d models.Doctor) (int64, error)
	DoctorsPage(ctx context.Context, page, size int) (models.DoctorPage, error)
	DoctorCount(ctx context.Context) (int64, error)
	Specializations(ctx context.Context) ([]string, error)
	UpdateDoctorStatus(ctx context.Context, id int64, status string) error
	DeleteDoctor(ctx context.Context, id int64) error

	RegisterPatient(ctx context.Context, p models.Patient) (int64, error)
	Patients(ctx context.Context) ([]models.Patient, error)
	PatientCount(ctx context.Context) (int64, error)
	DeletePatient(ctx context.Context, id int64) error
}

// DirectoryHandler serves the admin/doctor/patient directory endpoints.
type DirectoryHandler struct {
	// Directory performs the underlying directory operations.
	Directory DirectoryService
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// RegisterAdmin creates an administrator account.
func (h *DirectoryHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var admin models.Admin
	if err := json.NewDecoder(r.Body).Decode(&admin); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	id, err := h.Directory.RegisterAdmin(r.Context(), admin)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "Admin registered successfully."})
}

// ListAdmins returns every administrator; 404 when the directory is empty.
// Clients treat that 404 as an empty list.
func (h *DirectoryHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Directory.Admins(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if len(admins) == 0 {
		writeError(w, http.StatusNotFound, "No admins found in the system.")
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

// GetAdmin returns one administrator by id.
func (h *DirectoryHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	admin, err := h.Directory.AdminByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

// GetAdminByEmail returns one administrator by email, for the profile view.
func (h *DirectoryHandler) GetAdminByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	admin, err := h.Directory.AdminByEmail(r.Context(), email)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

// AdminCount returns the number of administrators as a bare JSON number.
func (h *DirectoryHandler) AdminCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Directory.AdminCount(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// DeleteAdmin removes an administrator.
func (h *DirectoryHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Directory.DeleteAdmin(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin deleted successfully."})
}

// RegisterDoctor creates a doctor account.
func (h *DirectoryHandler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	var doctor models.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	id, err := h.Directory.RegisterDoctor(r.Context(), doctor)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "Doctor registered successfully."})
}

// ListDoctors returns one page of doctors with paging metadata; 404 when the
// page is empty.
func (h *DirectoryHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}

	result, err := h.Directory.DoctorsPage(r.Context(), page, size)
	if err != nil {
		respondError(w, err)
		return
	}
	if len(result.Doctors) == 0 {
		writeError(w, http.StatusNotFound, "No doctors found in the system.")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DoctorCount returns the number of doctors as a bare JSON number.
func (h *DirectoryHandler) DoctorCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Directory.DoctorCount(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// Specializations lists the distinct doctor specializations.
func (h *DirectoryHandler) Specializations(w http.ResponseWriter, r *http.Request) {
	specs, err := h.Directory.Specializations(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, specs)
}

// UpdateDoctorStatus sets a doctor's status from the ?status= query
// parameter.
func (h *DirectoryHandler) UpdateDoctorStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	status := r.URL.Query().Get("status")
	if err := h.Directory.UpdateDoctorStatus(r.Context(), id, status); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Doctor status updated successfully."})
}

// DeleteDoctor removes a doctor.
func (h *DirectoryHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Directory.DeleteDoctor(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Doctor deleted successfully."})
}

// RegisterPatient creates a patient account. This endpoint is public so
// patients can self-register.
func (h *DirectoryHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var patient models.Patient
	if err := json.NewDecoder(r.Body).Decode(&patient); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	id, err := h.Directory.RegisterPatient(r.Context(), patient)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "Patient registered successfully."})
}

// ListPatients returns every patient; 404 when the directory is empty.
func (h *DirectoryHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Directory.Patients(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if len(patients) == 0 {
		writeError(w, http.StatusNotFound, "No patients found in the system.")
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// PatientCount returns the number of patients as a bare JSON number.
func (h *DirectoryHandler) PatientCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Directory.PatientCount(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

// DeletePatient removes a patient.
func (h *DirectoryHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Directory.DeletePatient(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Patient deleted successfully."})
}
