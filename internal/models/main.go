// Package models defines the core data structures shared by the console
// client and the hospital backend: roles, user profiles, sessions, directory
// records, and the authentication error taxonomy.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies which area of the system an account belongs to.
type Role string

const (
	// RoleAdmin is a hospital administrator.
	RoleAdmin Role = "ADMIN"
	// RoleDoctor is a practicing doctor.
	RoleDoctor Role = "DOCTOR"
	// RolePatient is a registered patient.
	RolePatient Role = "PATIENT"
)

// ParseRole maps a user-supplied role string (any case) onto a known Role.
// The second return value is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleDoctor:
		return RoleDoctor, true
	case RolePatient:
		return RolePatient, true
	}
	return "", false
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RolePatient
}

// Account status values used across the directory.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// UserProfile is the authenticated identity carried in a Session and
// projected into AuthState. IDs travel as strings because the backend may
// issue either numeric or opaque identifiers.
type UserProfile struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Status     string `json:"status"`
	Image      string `json:"image,omitempty"`
	Address    string `json:"address,omitempty"`
	DOB        string `json:"dob,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Department string `json:"department,omitempty"`
	AdminType  string `json:"adminType,omitempty"`
}

// Session is the persisted token/profile pair representing a logged-in
// console installation.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// AuthState is the in-memory projection of the session. The zero value is
// the Anonymous state.
type AuthState struct {
	IsAuthenticated bool
	Role            Role
	Username        string
	User            *UserProfile
}

// Anonymous returns the unauthenticated AuthState value.
func Anonymous() AuthState {
	return AuthState{}
}

// Credentials is the transient login input. Never persisted.
type Credentials struct {
	Role       Role
	Identifier string
	Password   string
}

// Authentication error taxonomy. These are the only errors the client auth
// layer returns across its public boundary for expected failure modes.
var (
	// ErrInvalidInput marks a login attempt rejected before any network
	// call: unknown role, or empty identifier/password.
	ErrInvalidInput = errors.New("missing or invalid login input")
	// ErrInvalidCredentials maps a 401 from a login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNetworkUnavailable marks a request that never reached the backend
	// (connection refused, timeout).
	ErrNetworkUnavailable = errors.New("server unreachable")
	// ErrSessionExpired marks a 401 from an authenticated (non-login) call;
	// the controller forces a logout when it sees one.
	ErrSessionExpired = errors.New("session expired")
	// ErrCorruptSession marks a stored session that failed to parse. The
	// session store self-heals on it; callers only ever observe Absent.
	ErrCorruptSession = errors.New("corrupt session")
)

// ServerError carries a non-401 HTTP failure with the backend-provided
// message, surfaced verbatim when available.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// Admin is a directory record for a hospital administrator.
type Admin struct {
	ID        int64  `json:"id"`
	LoginID   string `json:"adminId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password,omitempty"`
	Status    string `json:"status"`
	AdminType string `json:"adminType,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Doctor is a directory record for a doctor.
type Doctor struct {
	ID             int64  `json:"id"`
	LoginID        string `json:"doctorId,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Password       string `json:"password,omitempty"`
	Specialization string `json:"specialization"`
	Status         string `json:"status"`
	Gender         string `json:"gender,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Address        string `json:"address,omitempty"`
	Image          string `json:"image,omitempty"`
}

// Patient is a directory record for a patient.
type Patient struct {
	ID      int64  `json:"id"`
	LoginID string `json:"patientId,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	// Password is only set on registration payloads.
	Password string `json:"password,omitempty"`
	Status   string `json:"status"`
	Gender   string `json:"gender,omitempty"`
	DOB      string `json:"dob,omitempty"`
	Address  string `json:"address,omitempty"`
}

// DoctorPage is the paged doctor listing returned by the backend.
type DoctorPage struct {
	Doctors     []Doctor `json:"doctors"`
	CurrentPage int      `json:"currentPage"`
	TotalItems  int64    `json:"totalItems"`
	TotalPages  int      `json:"totalPages"`
	PageSize    int      `json:"pageSize"`
}
