package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicnotes/medicnotes/internal/auth"
	"github.com/medicnotes/medicnotes/internal/models"
	"github.com/medicnotes/medicnotes/internal/repository"
)

// ValidationError rejects a registration or update with a message the
// handler surfaces to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AdminRepository is the full admin persistence surface.
type AdminRepository interface {
	AdminAccountRepository
	GetByID(ctx context.Context, id int64) (models.Admin, error)
	Create(ctx context.Context, a models.Admin, passwordHash string) (int64, error)
	List(ctx context.Context) ([]models.Admin, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// DoctorRepository is the full doctor persistence surface.
type DoctorRepository interface {
	DoctorAccountRepository
	Create(ctx context.Context, d models.Doctor, passwordHash string) (int64, error)
	ListPaged(ctx context.Context, offset, limit int) ([]models.Doctor, error)
	Count(ctx context.Context) (int64, error)
	Specializations(ctx context.Context) ([]string, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// PatientRepository is the full patient persistence surface.
type PatientRepository interface {
	PatientAccountRepository
	Create(ctx context.Context, p models.Patient, passwordHash string) (int64, error)
	List(ctx context.Context) ([]models.Patient, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// DirectoryService manages the admin/doctor/patient directory.
type DirectoryService struct {
	admins     AdminRepository
	doctors    DoctorRepository
	patients   PatientRepository
	bcryptCost int
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(admins AdminRepository, doctors DoctorRepository, patients PatientRepository, bcryptCost int) *DirectoryService {
	return &DirectoryService{admins: admins, doctors: doctors, patients: patients, bcryptCost: bcryptCost}
}

type requiredField struct {
	label string
	value string
}

func requireFields(fields []requiredField) error {
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Message: f.label + " is required."}
		}
	}
	return nil
}

// RegisterAdmin validates and creates an administrator account.
func (s *DirectoryService) RegisterAdmin(ctx context.Context, a models.Admin) (int64, error) {
	if err := requireFields([]requiredField{
		{"Admin name", a.Name},
		{"Admin email", a.Email},
		{"Admin phone", a.Phone},
		{"Admin password", a.Password},
	}); err != nil {
		return 0, err
	}

	if _, _, err := s.admins.FindByEmail(ctx, a.Email); err == nil {
		return 0, &ValidationError{Message: "An admin with this email already exists. Please use a different email."}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	if _, _, err := s.admins.FindByPhone(ctx, a.Phone); err == nil {
		return 0, &ValidationError{Message: "An admin with this phone number already exists. Please use a different phone number."}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	if a.Status == "" {
		a.Status = models.StatusActive
	}
	if a.AdminType == "" {
		a.AdminType = "GENERAL"
	}

	hash, err := auth.HashPassword(a.Password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.admins.Create(ctx, a, hash)
}

// Admins lists every administrator.
func (s *DirectoryService) Admins(ctx context.Context) ([]models.Admin, error) {
	return s.admins.List(ctx)
}

// AdminByID fetches one administrator.
func (s *DirectoryService) AdminByID(ctx context.Context, id int64) (models.Admin, error) {
	return s.admins.GetByID(ctx, id)
}

// AdminByEmail fetches one administrator by email.
func (s *DirectoryService) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	a, _, err := s.admins.FindByEmail(ctx, email)
	return a, err
}

// AdminCount returns the number of administrators.
func (s *DirectoryService) AdminCount(ctx context.Context) (int64, error) {
	return s.admins.Count(ctx)
}

// DeleteAdmin removes an administrator.
func (s *DirectoryService) DeleteAdmin(ctx context.Context, id int64) error {
	return s.admins.Delete(ctx, id)
}

// RegisterDoctor validates and creates a doctor account.
func (s *DirectoryService) RegisterDoctor(ctx context.Context, d models.Doctor) (int64, error) {
	if err := requireFields([]requiredField{
		{"Doctor name", d.Name},
		{"Doctor email", d.Email},
		{"Doctor phone", d.Phone},
		{"Doctor password", d.Password},
		{"Doctor specialization", d.Specialization},
	}); err != nil {
		return 0, err
	}

	if _, _, err := s.doctors.FindByEmail(ctx, d.Email); err == nil {
		return 0, &ValidationError{Message: "A doctor with this email already exists. Please use a different email."}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	if _, _, err := s.doctors.FindByPhone(ctx, d.Phone); err == nil {
		return 0, &ValidationError{Message: "A doctor with this phone number already exists. Please use a different phone number."}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	if d.Status == "" {
		d.Status = models.StatusActive
	}

	hash, err := auth.HashPassword(d.Password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.doctors.Create(ctx, d, hash)
}

// DoctorsPage returns one page of the doctor listing along with paging
// metadata.
func (s *DirectoryService) DoctorsPage(ctx context.Context, page, size int) (models.DoctorPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	total, err := s.doctors.Count(ctx)
	if err != nil {
		return models.DoctorPage{}, err
	}
	doctors, err := s.doctors.ListPaged(ctx, page*size, size)
	if err != nil {
		return models.DoctorPage{}, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return models.DoctorPage{
		Doctors:     doctors,
		CurrentPage: page,
		TotalItems:  total,
		TotalPages:  totalPages,
		PageSize:    size,
	}, nil
}

// DoctorCount returns the number of doctors.
func (s *DirectoryService) DoctorCount(ctx context.Context) (int64, error) {
	return s.doctors.Count(ctx)
}

// Specializations lists distinct doctor specializations.
func (s *DirectoryService) Specializations(ctx context.Context) ([]string, error) {
	return s.doctors.Specializations(ctx)
}

// UpdateDoctorStatus flips a doctor between ACTIVE and INACTIVE.
func (s *DirectoryService) UpdateDoctorStatus(ctx context.Context, id int64, status string) error {
	if status != models.StatusActive && status != models.StatusInactive {
		return &ValidationError{Message: "Status must be ACTIVE or INACTIVE."}
	}
	return s.doctors.UpdateStatus(ctx, id, status)
}

// DeleteDoctor removes a doctor.
func (s *DirectoryService) DeleteDoctor(ctx context.Context, id int64) error {
	return s.doctors.Delete(ctx, id)
}

// RegisterPatient validates and creates a patient account.
func (s *DirectoryService) RegisterPatient(ctx context.Context, p models.Patient) (int64, error) {
	if err := requireFields([]requiredField{
		{"Patient name", p.Name},
		{"Patient email", p.Email},
		{"Patient phone", p.Phone},
		{"Patient password", p.Password},
	}); err != nil {
		return 0, err
	}

	if _, _, err := s.patients.FindByEmail(ctx, p.Email); err == nil {
		return 0, &ValidationError{Message: "A patient with this email already exists. Please use a different email."}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	if _, _, err := s.patients.FindByPhone(ctx, p.Phone); err == nil {
		return 0, &ValidationError{Message: "A patient with this phone number already exists. Please use a different phone number."}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	if p.Status == "" {
		p.Status = models.StatusActive
	}

	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.patients.Create(ctx, p, hash)
}

// Patients lists every patient.
func (s *DirectoryService) Patients(ctx context.Context) ([]models.Patient, error) {
	return s.patients.List(ctx)
}

// PatientCount returns the number of patients.
func (s *DirectoryService) PatientCount(ctx context.Context) (int64, error) {
	return s.patients.Count(ctx)
}

// DeletePatient removes a patient.
func (s *DirectoryService) DeletePatient(ctx context.Context, id int64) error {
	return s.patients.Delete(ctx, id)
}
