// Package service provides the backend's business logic: verifying logins
// and managing the hospital directory, delegating persistence to
// repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/medicnotes/medicnotes/internal/auth"
	"github.com/medicnotes/medicnotes/internal/models"
	"github.com/medicnotes/medicnotes/internal/repository"
)

// ErrAccountInactive rejects logins for accounts whose status is not ACTIVE.
var ErrAccountInactive = errors.New("account is inactive")

// AdminAccountRepository is the admin lookup surface the auth service needs.
type AdminAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (models.Admin, string, error)
	FindByPhone(ctx context.Context, phone string) (models.Admin, string, error)
	FindByLoginID(ctx context.Context, loginID string) (models.Admin, string, error)
}

// DoctorAccountRepository is the doctor lookup surface the auth service needs.
type DoctorAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (models.Doctor, string, error)
	FindByPhone(ctx context.Context, phone string) (models.Doctor, string, error)
	FindByLoginID(ctx context.Context, loginID string) (models.Doctor, string, error)
}

// PatientAccountRepository is the patient lookup surface the auth service needs.
type PatientAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (models.Patient, string, error)
	FindByPhone(ctx context.Context, phone string) (models.Patient, string, error)
	FindByLoginID(ctx context.Context, loginID string) (models.Patient, string, error)
}

// LoginRequest is the decoded login payload. Exactly one identifier field is
// expected; the role-scoped ID field must match the endpoint's role.
type LoginRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AdminID   string `json:"adminId"`
	DoctorID  string `json:"doctorId"`
	PatientID string `json:"patientId"`
	Password  string `json:"password"`
}

// LoginResult carries the issued token and the authenticated profile.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.UserProfile
}

// AuthService verifies credentials against the directory and issues tokens.
type AuthService struct {
	admins   AdminAccountRepository
	doctors  DoctorAccountRepository
	patients PatientAccountRepository
	tokens   *auth.TokenManager
}

// NewAuthService constructs an AuthService over the three account
// repositories and a token manager.
func NewAuthService(admins AdminAccountRepository, doctors DoctorAccountRepository, patients PatientAccountRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{admins: admins, doctors: doctors, patients: patients, tokens: tokens}
}

// Login verifies the request against the role's account table. A missing
// identifier or password is ErrInvalidInput; an unknown account or a wrong
// password is ErrInvalidCredentials, deliberately indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, role models.Role, req LoginRequest) (LoginResult, error) {
	if req.Password == "" {
		return LoginResult{}, models.ErrInvalidInput
	}

	var (
		user models.UserProfile
		hash string
		err  error
	)
	switch role {
	case models.RoleAdmin:
		var a models.Admin
		switch {
		case req.Email != "":
			a, hash, err = s.admins.FindByEmail(ctx, req.Email)
		case req.Phone != "":
			a, hash, err = s.admins.FindByPhone(ctx, req.Phone)
		case req.AdminID != "":
			a, hash, err = s.admins.FindByLoginID(ctx, req.AdminID)
		default:
			return LoginResult{}, models.ErrInvalidInput
		}
		user = adminProfile(a)
	case models.RoleDoctor:
		var d models.Doctor
		switch {
		case req.Email != "":
			d, hash, err = s.doctors.FindByEmail(ctx, req.Email)
		case req.Phone != "":
			d, hash, err = s.doctors.FindByPhone(ctx, req.Phone)
		case req.DoctorID != "":
			d, hash, err = s.doctors.FindByLoginID(ctx, req.DoctorID)
		default:
			return LoginResult{}, models.ErrInvalidInput
		}
		user = doctorProfile(d)
	case models.RolePatient:
		var p models.Patient
		switch {
		case req.Email != "":
			p, hash, err = s.patients.FindByEmail(ctx, req.Email)
		case req.Phone != "":
			p, hash, err = s.patients.FindByPhone(ctx, req.Phone)
		case req.PatientID != "":
			p, hash, err = s.patients.FindByLoginID(ctx, req.PatientID)
		default:
			return LoginResult{}, models.ErrInvalidInput
		}
		user = patientProfile(p)
	default:
		return LoginResult{}, models.ErrInvalidInput
	}

	if errors.Is(err, repository.ErrNotFound) {
		return LoginResult{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("look up account: %w", err)
	}

	if err := auth.ComparePassword(hash, req.Password); err != nil {
		return LoginResult{}, models.ErrInvalidCredentials
	}
	if user.Status != models.StatusActive {
		return LoginResult{}, ErrAccountInactive
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func adminProfile(a models.Admin) models.UserProfile {
	return models.UserProfile{
		ID:        strconv.FormatInt(a.ID, 10),
		Role:      models.RoleAdmin,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Status:    a.Status,
		Image:     a.Image,
		AdminType: a.AdminType,
	}
}

func doctorProfile(d models.Doctor) models.UserProfile {
	return models.UserProfile{
		ID:         strconv.FormatInt(d.ID, 10),
		Role:       models.RoleDoctor,
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Status:     d.Status,
		Image:      d.Image,
		Address:    d.Address,
		DOB:        d.DOB,
		Gender:     d.Gender,
		Department: d.Specialization,
	}
}

func patientProfile(p models.Patient) models.UserProfile {
	return models.UserProfile{
		ID:      strconv.FormatInt(p.ID, 10),
		Role:    models.RolePatient,
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Status:  p.Status,
		Address: p.Address,
		DOB:     p.DOB,
		Gender:  p.Gender,
	}
}
