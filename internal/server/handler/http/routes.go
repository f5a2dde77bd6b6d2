package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/medicnotes/medicnotes/internal/auth"
	"github.com/medicnotes/medicnotes/internal/middleware"
	"github.com/medicnotes/medicnotes/internal/models"
)

// NewRouter constructs the HTTP handler serving the hospital backend.
//
// Public surface:
//
//	POST /auth/admin/login      POST /auth/doctor/login     POST /auth/patient/login
//	POST /api/patients/register (patient self-registration)
//
// Everything else requires a bearer token; the /admin management routes
// additionally require the ADMIN role. The patient listing is readable by
// both admins and doctors, since the doctor dashboard shows it too.
func NewRouter(
	authHandler *AuthHandler,
	dirHandler *DirectoryHandler,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Post("/auth/admin/login", authHandler.LoginFor(models.RoleAdmin))
	r.Post("/auth/doctor/login", authHandler.LoginFor(models.RoleDoctor))
	r.Post("/auth/patient/login", authHandler.LoginFor(models.RolePatient))
	r.Post("/api/patients/register", dirHandler.RegisterPatient)

	// Protected group: admin management, requires an ADMIN token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens))
		r.Use(middleware.RequireRole(models.RoleAdmin))

		r.Post("/admin/register", dirHandler.RegisterAdmin)
		r.Get("/admin/all", dirHandler.ListAdmins)
		r.Get("/admin/get/{id}", dirHandler.GetAdmin)
		r.Get("/admin/get-by-email", dirHandler.GetAdminByEmail)
		r.Get("/admin/count", dirHandler.AdminCount)
		r.Delete("/admin/delete/{id}", dirHandler.DeleteAdmin)

		r.Post("/admin/RegisterDoctor", dirHandler.RegisterDoctor)
		r.Get("/admin/AllDoctors", dirHandler.ListDoctors)
		r.Get("/admin/doctor-count", dirHandler.DoctorCount)
		r.Get("/admin/DoctorsAllSpecializations", dirHandler.Specializations)
		r.Put("/admin/UpdateDoctorStatus/{id}", dirHandler.UpdateDoctorStatus)
		r.Delete("/admin/deleteDoctor/{id}", dirHandler.DeleteDoctor)

		r.Delete("/api/patients/delete/{id}", dirHandler.DeletePatient)
	})

	// Protected group: patient directory, readable by admins and doctors
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(tokens))
		r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDoctor))

		r.Get("/api/patients/all", dirHandler.ListPatients)
		r.Get("/api/patients/patient-count", dirHandler.PatientCount)
	})

	return r
}
