package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/medicnotes/medicnotes/internal/models"
	"github.com/medicnotes/medicnotes/internal/repository"
)

// fakeDirectory implements DirectoryService with overridable behavior per
// test.
type fakeDirectory struct {
	registerAdmin      func(a models.Admin) (int64, error)
	admins             func() ([]models.Admin, error)
	adminByID          func(id int64) (models.Admin, error)
	adminByEmail       func(email string) (models.Admin, error)
	adminCount         func() (int64, error)
	deleteAdmin        func(id int64) error
	registerDoctor     func(d models.Doctor) (int64, error)
	doctorsPage        func(page, size int) (models.DoctorPage, error)
	doctorCount        func() (int64, error)
	specializations    func() ([]string, error)
	updateDoctorStatus func(id int64, status string) error
	deleteDoctor       func(id int64) error
	registerPatient    func(p models.Patient) (int64, error)
	patients           func() ([]models.Patient, error)
	patientCount       func() (int64, error)
	deletePatient      func(id int64) error
}

func (f *fakeDirectory) RegisterAdmin(_ context.Context, a models.Admin) (int64, error) {
	return f.registerAdmin(a)
}
func (f *fakeDirectory) Admins(_ context.Context) ([]models.Admin, error) { return f.admins() }
func (f *fakeDirectory) AdminByID(_ context.Context, id int64) (models.Admin, error) {
	return f.adminByID(id)
}
func (f *fakeDirectory) AdminByEmail(_ context.Context, email string) (models.Admin, error) {
	return f.adminByEmail(email)
}
func (f *fakeDirectory) AdminCount(_ context.Context) (int64, error) { return f.adminCount() }
func (f *fakeDirectory) DeleteAdmin(_ context.Context, id int64) error {
	return f.deleteAdmin(id)
}
func (f *fakeDirectory) RegisterDoctor(_ context.Context, d models.Doctor) (int64, error) {
	return f.registerDoctor(d)
}
func (f *fakeDirectory) DoctorsPage(_ context.Context, page, size int) (models.DoctorPage, error) {
	return f.doctorsPage(page, size)
}
func (f *fakeDirectory) DoctorCount(_ context.Context) (int64, error) { return f.doctorCount() }
func (f *fakeDirectory) Specializations(_ context.Context) ([]string, error) {
	return f.specializations()
}
func (f *fakeDirectory) UpdateDoctorStatus(_ context.Context, id int64, status string) error {
	return f.updateDoctorStatus(id, status)
}
func (f *fakeDirectory) DeleteDoctor(_ context.Context, id int64) error {
	return f.deleteDoctor(id)
}
func (f *fakeDirectory) RegisterPatient(_ context.Context, p models.Patient) (int64, error) {
	return f.registerPatient(p)
}
func (f *fakeDirectory) Patients(_ context.Context) ([]models.Patient, error) {
	return f.patients()
}
func (f *fakeDirectory) PatientCount(_ context.Context) (int64, error) { return f.patientCount() }
func (f *fakeDirectory) DeletePatient(_ context.Context, id int64) error {
	return f.deletePatient(id)
}

// newDirectoryRouter mounts the handler on a bare chi router so {id} URL
// params resolve, without the auth middlewares.
func newDirectoryRouter(dir DirectoryService) http.Handler {
	h := &DirectoryHandler{Directory: dir}
	r := chi.NewRouter()
	r.Get("/admin/all", h.ListAdmins)
	r.Get("/admin/get/{id}", h.GetAdmin)
	r.Get("/admin/get-by-email", h.GetAdminByEmail)
	r.Get("/admin/count", h.AdminCount)
	r.Get("/admin/AllDoctors", h.ListDoctors)
	r.Put("/admin/UpdateDoctorStatus/{id}", h.UpdateDoctorStatus)
	r.Delete("/admin/deleteDoctor/{id}", h.DeleteDoctor)
	r.Post("/api/patients/register", h.RegisterPatient)
	r.Get("/api/patients/all", h.ListPatients)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListAdmins(t *testing.T) {
	dir := &fakeDirectory{
		admins: func() ([]models.Admin, error) {
			return []models.Admin{{ID: 7, Name: "Ann"}}, nil
		},
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodGet, "/admin/all", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var admins []models.Admin
	if err := json.Unmarshal(rec.Body.Bytes(), &admins); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(admins) != 1 || admins[0].Name != "Ann" {
		t.Errorf("unexpected admins: %+v", admins)
	}
}

func TestListAdmins_EmptyIs404(t *testing.T) {
	dir := &fakeDirectory{
		admins: func() ([]models.Admin, error) { return nil, nil },
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodGet, "/admin/all", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No admins found in the system.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetAdmin(t *testing.T) {
	dir := &fakeDirectory{
		adminByID: func(id int64) (models.Admin, error) {
			if id != 7 {
				return models.Admin{}, repository.ErrNotFound
			}
			return models.Admin{ID: 7, Name: "Ann"}, nil
		},
	}
	router := newDirectoryRouter(dir)

	rec := doRequest(t, router, http.MethodGet, "/admin/get/7", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/admin/get/99", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/admin/get/not-a-number", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestGetAdminByEmail_RequiresEmail(t *testing.T) {
	dir := &fakeDirectory{
		adminByEmail: func(email string) (models.Admin, error) {
			return models.Admin{ID: 7, Email: email}, nil
		},
	}
	router := newDirectoryRouter(dir)

	rec := doRequest(t, router, http.MethodGet, "/admin/get-by-email?email=ann@x.com", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/admin/get-by-email", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400 when email missing", rec.Code)
	}
}

func TestAdminCount_BareNumber(t *testing.T) {
	dir := &fakeDirectory{
		adminCount: func() (int64, error) { return 3, nil },
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodGet, "/admin/count", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "3" {
		t.Errorf("body = %q; want a bare 3", got)
	}
}

func TestListDoctors_PagingParams(t *testing.T) {
	var gotPage, gotSize int
	dir := &fakeDirectory{
		doctorsPage: func(page, size int) (models.DoctorPage, error) {
			gotPage, gotSize = page, size
			return models.DoctorPage{
				Doctors:     []models.Doctor{{ID: 3, Name: "Greg"}},
				CurrentPage: page,
				TotalItems:  1,
				TotalPages:  1,
				PageSize:    size,
			}, nil
		},
	}
	router := newDirectoryRouter(dir)

	rec := doRequest(t, router, http.MethodGet, "/admin/AllDoctors?page=2&size=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if gotPage != 2 || gotSize != 5 {
		t.Errorf("page/size = %d/%d; want 2/5", gotPage, gotSize)
	}

	// Bad size falls back to the default page size.
	doRequest(t, router, http.MethodGet, "/admin/AllDoctors?page=0&size=bogus", "")
	if gotSize != 10 {
		t.Errorf("size = %d; want default 10", gotSize)
	}
}

func TestListDoctors_EmptyIs404(t *testing.T) {
	dir := &fakeDirectory{
		doctorsPage: func(page, size int) (models.DoctorPage, error) {
			return models.DoctorPage{CurrentPage: page, PageSize: size}, nil
		},
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodGet, "/admin/AllDoctors", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No doctors found in the system.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestUpdateDoctorStatus(t *testing.T) {
	var gotID int64
	var gotStatus string
	dir := &fakeDirectory{
		updateDoctorStatus: func(id int64, status string) error {
			gotID, gotStatus = id, status
			return nil
		},
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodPut, "/admin/UpdateDoctorStatus/3?status=INACTIVE", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if gotID != 3 || gotStatus != "INACTIVE" {
		t.Errorf("update = (%d, %q); want (3, INACTIVE)", gotID, gotStatus)
	}
}

func TestDeleteDoctor_NotFound(t *testing.T) {
	dir := &fakeDirectory{
		deleteDoctor: func(id int64) error { return repository.ErrNotFound },
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodDelete, "/admin/deleteDoctor/99", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

func TestRegisterPatient(t *testing.T) {
	var created models.Patient
	dir := &fakeDirectory{
		registerPatient: func(p models.Patient) (int64, error) {
			created = p
			return 5, nil
		},
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodPost, "/api/patients/register",
		`{"name":"Pat","email":"pat@x.com","phone":"0123456789","password":"p"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200: %s", rec.Code, rec.Body.String())
	}
	if created.Name != "Pat" || created.Email != "pat@x.com" {
		t.Errorf("unexpected patient: %+v", created)
	}
	var resp struct {
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.ID != 5 || resp.Message != "Patient registered successfully." {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestListPatients_EmptyIs404(t *testing.T) {
	dir := &fakeDirectory{
		patients: func() ([]models.Patient, error) { return nil, nil },
	}
	rec := doRequest(t, newDirectoryRouter(dir), http.MethodGet, "/api/patients/all", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}
