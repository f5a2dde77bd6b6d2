// Package api is the authenticated HTTP client the dashboards fetch their
// data through. Every request carries the bearer token; a 401 on any call
// tears the session down through the controller's forced logout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medicnotes/medicnotes/internal/models"
)

// Client calls the hospital backend's directory endpoints. Token and
// onUnauthorized are supplied by the auth controller.
type Client struct {
	baseURL        string
	http           *http.Client
	token          func() string
	onUnauthorized func(reason string)
	log            *zap.Logger
}

// New builds a Client. token returns the current bearer token (empty when
// anonymous); onUnauthorized runs once per 401 response before the error is
// returned.
func New(baseURL string, timeout time.Duration, token func() string, onUnauthorized func(reason string), log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	if onUnauthorized == nil {
		onUnauthorized = func(string) {}
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		token:          token,
		onUnauthorized: onUnauthorized,
		log:            log,
	}
}

// do performs one request/response cycle. out may be nil for calls whose
// body is ignored.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.onUnauthorized(method + " " + path)
		return models.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		message := strings.TrimSpace(string(raw))
		var failure struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &failure); err == nil && failure.Message != "" {
			message = failure.Message
		}
		return &models.ServerError{Status: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// notFound reports whether err is a 404, which the listing endpoints use to
// mean "no rows" rather than a failure.
func notFound(err error) bool {
	var srvErr *models.ServerError
	return errors.As(err, &srvErr) && srvErr.Status == http.StatusNotFound
}

// Admins lists every administrator.
func (c *Client) Admins(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := c.do(ctx, http.MethodGet, "/admin/all", nil, nil, &admins); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return admins, nil
}

// Admin fetches one administrator by id.
func (c *Client) Admin(ctx context.Context, id int64) (models.Admin, error) {
	var admin models.Admin
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/get/%d", id), nil, nil, &admin)
	return admin, err
}

// AdminByEmail fetches one administrator by email, used for the profile
// view.
func (c *Client) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	query := url.Values{"email": []string{email}}
	err := c.do(ctx, http.MethodGet, "/admin/get-by-email", query, nil, &admin)
	return admin, err
}

// AdminCount returns the number of administrators.
func (c *Client) AdminCount(ctx context.Context) (int64, error) {
	var count int64
	err := c.do(ctx, http.MethodGet, "/admin/count", nil, nil, &count)
	return count, err
}

// RegisterAdmin creates an administrator account.
func (c *Client) RegisterAdmin(ctx context.Context, admin models.Admin) error {
	return c.do(ctx, http.MethodPost, "/admin/register", nil, admin, nil)
}

// DeleteAdmin removes an administrator.
func (c *Client) DeleteAdmin(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/delete/%d", id), nil, nil, nil)
}

// Doctors returns one page of the doctor listing.
func (c *Client) Doctors(ctx context.Context, page, size int) (models.DoctorPage, error) {
	query := url.Values{
		"page": []string{fmt.Sprint(page)},
		"size": []string{fmt.Sprint(size)},
	}
	var result models.DoctorPage
	if err := c.do(ctx, http.MethodGet, "/admin/AllDoctors", query, nil, &result); err != nil {
		if notFound(err) {
			return models.DoctorPage{PageSize: size}, nil
		}
		return models.DoctorPage{}, err
	}
	return result, nil
}

// DoctorCount returns the number of doctors.
func (c *Client) DoctorCount(ctx context.Context) (int64, error) {
	var count int64
	err := c.do(ctx, http.MethodGet, "/admin/doctor-count", nil, nil, &count)
	return count, err
}

// Specializations lists the distinct doctor specializations for filter
// dropdowns.
func (c *Client) Specializations(ctx context.Context) ([]string, error) {
	var specs []string
	if err := c.do(ctx, http.MethodGet, "/admin/DoctorsAllSpecializations", nil, nil, &specs); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return specs, nil
}

// RegisterDoctor creates a doctor account.
func (c *Client) RegisterDoctor(ctx context.Context, doctor models.Doctor) error {
	return c.do(ctx, http.MethodPost, "/admin/RegisterDoctor", nil, doctor, nil)
}

// UpdateDoctorStatus flips a doctor between ACTIVE and INACTIVE.
func (c *Client) UpdateDoctorStatus(ctx context.Context, id int64, status string) error {
	query := url.Values{"status": []string{status}}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/UpdateDoctorStatus/%d", id), query, nil, nil)
}

// DeleteDoctor removes a doctor.
func (c *Client) DeleteDoctor(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/deleteDoctor/%d", id), nil, nil, nil)
}

// Patients lists every patient.
func (c *Client) Patients(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := c.do(ctx, http.MethodGet, "/api/patients/all", nil, nil, &patients); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return patients, nil
}

// PatientCount returns the number of patients.
func (c *Client) PatientCount(ctx context.Context) (int64, error) {
	var count int64
	err := c.do(ctx, http.MethodGet, "/api/patients/patient-count", nil, nil, &count)
	return count, err
}

// RegisterPatient creates a patient account.
func (c *Client) RegisterPatient(ctx context.Context, patient models.Patient) error {
	return c.do(ctx, http.MethodPost, "/api/patients/register", nil, patient, nil)
}

// DeletePatient removes a patient.
func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/patients/delete/%d", id), nil, nil, nil)
}
