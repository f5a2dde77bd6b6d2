// Package auth implements the console's login flow: exchanging credentials
// for a session against the backend, and owning the in-memory auth state.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medicnotes/medicnotes/internal/models"
)

// IdentifierKind classifies what the user typed into the identifier field.
type IdentifierKind int

const (
	// KindPhone is an all-digit identifier.
	KindPhone IdentifierKind = iota
	// KindEmail contains an "@" and at least one non-digit.
	KindEmail
	// KindRoleID is any other non-empty identifier, scoped to the role
	// (adminId/doctorId/patientId).
	KindRoleID
)

var allDigits = regexp.MustCompile(`^\d+$`)

// ClassifyIdentifier applies the classification precedence: all-digit
// strings are phones even when an ID scheme would also allow digits, then
// "@" marks an email, everything else is a role-scoped ID.
func ClassifyIdentifier(identifier string) IdentifierKind {
	switch {
	case allDigits.MatchString(identifier):
		return KindPhone
	case strings.Contains(identifier, "@"):
		return KindEmail
	default:
		return KindRoleID
	}
}

// roleIDField returns the payload field name the backend expects for a
// role-scoped ID.
func roleIDField(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "adminId"
	case models.RoleDoctor:
		return "doctorId"
	default:
		return "patientId"
	}
}

// Authenticator exchanges credentials for a verified session. It performs no
// persistence; the controller writes the session store after a success.
type Authenticator struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewAuthenticator returns an Authenticator for the backend at baseURL. A
// timeout of zero falls back to 15 seconds so a dead backend resolves to a
// network error instead of hanging the login prompt forever.
func NewAuthenticator(baseURL string, timeout time.Duration, log *zap.Logger) *Authenticator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// loginResponse covers both response shapes the backend may return: a nested
// user object, or the profile fields flat on the top level.
type loginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// flexID accepts either a JSON number or a JSON string id.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// wireProfile tolerates numeric or string ids on the wire.
type wireProfile struct {
	ID         flexID `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Status     string `json:"status"`
	Image      string `json:"image"`
	Address    string `json:"address"`
	DOB        string `json:"dob"`
	Gender     string `json:"gender"`
	Department string `json:"department"`
	AdminType  string `json:"adminType"`
}

// Login validates and classifies the credentials, calls the role's login
// endpoint, and normalizes the response into a Session. Expected failures
// map onto the models error taxonomy; no network call happens on invalid
// input.
func (a *Authenticator) Login(ctx context.Context, role models.Role, identifier, password string) (models.Session, error) {
	if !role.Valid() || identifier == "" || password == "" {
		return models.Session{}, models.ErrInvalidInput
	}

	payload := map[string]string{"password": password}
	switch ClassifyIdentifier(identifier) {
	case KindPhone:
		payload["phone"] = identifier
	case KindEmail:
		payload["email"] = identifier
	default:
		payload[roleIDField(role)] = identifier
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return models.Session{}, fmt.Errorf("encode login payload: %w", err)
	}

	url := fmt.Sprintf("%s/auth/%s/login", a.baseURL, strings.ToLower(string(role)))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return models.Session{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("login request failed", zap.String("url", url), zap.Error(err))
		return models.Session{}, fmt.Errorf("%w: %v", models.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return models.Session{}, models.ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Session{}, serverError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Session{}, fmt.Errorf("read login response: %w", err)
	}

	var envelope loginResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return models.Session{}, &models.ServerError{Status: resp.StatusCode, Message: "malformed login response"}
	}
	if envelope.Token == "" {
		return models.Session{}, &models.ServerError{Status: resp.StatusCode, Message: "login response missing token"}
	}

	// Prefer the nested user object when present, else read the profile
	// fields off the top level.
	profileSrc := raw
	if len(envelope.User) > 0 && string(envelope.User) != "null" {
		profileSrc = envelope.User
	}
	var wire wireProfile
	if err := json.Unmarshal(profileSrc, &wire); err != nil {
		return models.Session{}, &models.ServerError{Status: resp.StatusCode, Message: "malformed user profile"}
	}

	return models.Session{Token: envelope.Token, User: normalizeProfile(role, wire)}, nil
}

// normalizeProfile fills backend-omitted fields: status defaults to ACTIVE,
// the name to a role-derived placeholder, and the id to a locally generated
// value only as a last resort.
func normalizeProfile(role models.Role, wire wireProfile) models.UserProfile {
	user := models.UserProfile{
		ID:         string(wire.ID),
		Role:       role,
		Name:       wire.Name,
		Email:      wire.Email,
		Phone:      wire.Phone,
		Status:     wire.Status,
		Image:      wire.Image,
		Address:    wire.Address,
		DOB:        wire.DOB,
		Gender:     wire.Gender,
		Department: wire.Department,
		AdminType:  wire.AdminType,
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	if user.Name == "" {
		user.Name = placeholderName(role)
	}
	return user
}

func placeholderName(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "Admin User"
	case models.RoleDoctor:
		return "Doctor User"
	default:
		return "Patient User"
	}
}

// serverError extracts the backend-provided message when one is present,
// whether sent as {"message": ...} JSON or as a plain text body.
func serverError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(raw))
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		message = body.Message
	} else if json.Valid(raw) && strings.HasPrefix(message, "{") {
		// JSON without a message field: don't surface raw structures.
		message = ""
	}
	return &models.ServerError{Status: resp.StatusCode, Message: message}
}
