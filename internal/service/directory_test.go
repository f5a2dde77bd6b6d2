package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/medicnotes/medicnotes/internal/auth"
	"github.com/medicnotes/medicnotes/internal/models"
	"github.com/medicnotes/medicnotes/internal/repository"
)

func newDirectoryService(admins *mockAdminRepo, doctors *mockDoctorRepo, patients *mockPatientRepo) *DirectoryService {
	if admins == nil {
		admins = &mockAdminRepo{}
	}
	if doctors == nil {
		doctors = &mockDoctorRepo{}
	}
	if patients == nil {
		patients = &mockPatientRepo{}
	}
	return NewDirectoryService(admins, doctors, patients, bcrypt.MinCost)
}

func TestRegisterDoctor(t *testing.T) {
	var created models.Doctor
	var createdHash string
	doctors := &mockDoctorRepo{
		create: func(d models.Doctor, hash string) (int64, error) {
			created, createdHash = d, hash
			return 3, nil
		},
	}
	svc := newDirectoryService(nil, doctors, nil)

	id, err := svc.RegisterDoctor(context.Background(), models.Doctor{
		Name:           "Greg",
		Email:          "greg@x.com",
		Phone:          "0123456789",
		Password:       "p",
		Specialization: "Diagnostics",
	})
	if err != nil {
		t.Fatalf("RegisterDoctor failed: %v", err)
	}
	if id != 3 {
		t.Errorf("id = %d; want 3", id)
	}
	if created.Status != models.StatusActive {
		t.Errorf("status = %q; want default ACTIVE", created.Status)
	}
	if createdHash == "p" {
		t.Error("password stored unhashed")
	}
	if err := auth.ComparePassword(createdHash, "p"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegisterDoctor_MissingFields(t *testing.T) {
	svc := newDirectoryService(nil, nil, nil)

	tests := []struct {
		name    string
		doctor  models.Doctor
		message string
	}{
		{"no name", models.Doctor{Email: "g@x.com", Phone: "1", Password: "p", Specialization: "X"}, "Doctor name is required."},
		{"no email", models.Doctor{Name: "G", Phone: "1", Password: "p", Specialization: "X"}, "Doctor email is required."},
		{"no specialization", models.Doctor{Name: "G", Email: "g@x.com", Phone: "1", Password: "p"}, "Doctor specialization is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterDoctor(context.Background(), tt.doctor)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Message != tt.message {
				t.Errorf("message = %q; want %q", vErr.Message, tt.message)
			}
		})
	}
}

func TestRegisterDoctor_DuplicateEmail(t *testing.T) {
	doctors := &mockDoctorRepo{
		findByEmail: func(string) (models.Doctor, string, error) {
			return models.Doctor{ID: 3}, "hash", nil
		},
	}
	svc := newDirectoryService(nil, doctors, nil)

	_, err := svc.RegisterDoctor(context.Background(), models.Doctor{
		Name: "Greg", Email: "greg@x.com", Phone: "0123456789", Password: "p", Specialization: "Diagnostics",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Message != "A doctor with this email already exists. Please use a different email." {
		t.Errorf("unexpected message: %q", vErr.Message)
	}
}

func TestRegisterAdmin_DuplicatePhone(t *testing.T) {
	admins := &mockAdminRepo{
		findByPhone: func(string) (models.Admin, string, error) {
			return models.Admin{ID: 7}, "hash", nil
		},
	}
	svc := newDirectoryService(admins, nil, nil)

	_, err := svc.RegisterAdmin(context.Background(), models.Admin{
		Name: "Ann", Email: "ann@x.com", Phone: "0123456789", Password: "p",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Message != "An admin with this phone number already exists. Please use a different phone number." {
		t.Errorf("unexpected message: %q", vErr.Message)
	}
}

func TestRegisterAdmin_Defaults(t *testing.T) {
	var created models.Admin
	admins := &mockAdminRepo{
		create: func(a models.Admin, hash string) (int64, error) {
			created = a
			return 7, nil
		},
	}
	svc := newDirectoryService(admins, nil, nil)

	if _, err := svc.RegisterAdmin(context.Background(), models.Admin{
		Name: "Ann", Email: "ann@x.com", Phone: "0123456789", Password: "p",
	}); err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}
	if created.Status != models.StatusActive || created.AdminType != "GENERAL" {
		t.Errorf("unexpected defaults: status=%q adminType=%q", created.Status, created.AdminType)
	}
}

func TestRegisterPatient(t *testing.T) {
	patients := &mockPatientRepo{
		create: func(p models.Patient, hash string) (int64, error) { return 5, nil },
	}
	svc := newDirectoryService(nil, nil, patients)

	id, err := svc.RegisterPatient(context.Background(), models.Patient{
		Name: "Pat", Email: "pat@x.com", Phone: "0123456789", Password: "p",
	})
	if err != nil {
		t.Fatalf("RegisterPatient failed: %v", err)
	}
	if id != 5 {
		t.Errorf("id = %d; want 5", id)
	}
}

func TestDoctorsPage(t *testing.T) {
	var gotOffset, gotLimit int
	doctors := &mockDoctorRepo{
		count: func() (int64, error) { return 11, nil },
		listPaged: func(offset, limit int) ([]models.Doctor, error) {
			gotOffset, gotLimit = offset, limit
			return []models.Doctor{{ID: 3, Name: "Greg"}}, nil
		},
	}
	svc := newDirectoryService(nil, doctors, nil)

	page, err := svc.DoctorsPage(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("DoctorsPage failed: %v", err)
	}
	if gotOffset != 10 || gotLimit != 5 {
		t.Errorf("query window = (%d, %d); want (10, 5)", gotOffset, gotLimit)
	}
	if page.CurrentPage != 2 || page.TotalItems != 11 || page.TotalPages != 3 || page.PageSize != 5 {
		t.Errorf("unexpected paging metadata: %+v", page)
	}
}

func TestDoctorsPage_ClampsArguments(t *testing.T) {
	var gotOffset, gotLimit int
	doctors := &mockDoctorRepo{
		count: func() (int64, error) { return 0, nil },
		listPaged: func(offset, limit int) ([]models.Doctor, error) {
			gotOffset, gotLimit = offset, limit
			return nil, nil
		},
	}
	svc := newDirectoryService(nil, doctors, nil)

	page, err := svc.DoctorsPage(context.Background(), -3, 0)
	if err != nil {
		t.Fatalf("DoctorsPage failed: %v", err)
	}
	if gotOffset != 0 || gotLimit != 10 {
		t.Errorf("query window = (%d, %d); want (0, 10)", gotOffset, gotLimit)
	}
	if page.CurrentPage != 0 || page.PageSize != 10 {
		t.Errorf("unexpected paging metadata: %+v", page)
	}
}

func TestUpdateDoctorStatus_Validation(t *testing.T) {
	var gotStatus string
	doctors := &mockDoctorRepo{
		updateStatus: func(id int64, status string) error {
			gotStatus = status
			return nil
		},
	}
	svc := newDirectoryService(nil, doctors, nil)

	if err := svc.UpdateDoctorStatus(context.Background(), 3, "INACTIVE"); err != nil {
		t.Fatalf("UpdateDoctorStatus failed: %v", err)
	}
	if gotStatus != "INACTIVE" {
		t.Errorf("status = %q; want INACTIVE", gotStatus)
	}

	err := svc.UpdateDoctorStatus(context.Background(), 3, "RETIRED")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad status, got %v", err)
	}
	if vErr.Message != "Status must be ACTIVE or INACTIVE." {
		t.Errorf("unexpected message: %q", vErr.Message)
	}
}

func TestDeleteDoctor_PassesThroughNotFound(t *testing.T) {
	doctors := &mockDoctorRepo{
		delete: func(id int64) error { return repository.ErrNotFound },
	}
	svc := newDirectoryService(nil, doctors, nil)

	if err := svc.DeleteDoctor(context.Background(), 99); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
