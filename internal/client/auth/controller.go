package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/medicnotes/medicnotes/internal/models"
)

// LoginService exchanges credentials for a session. Implemented by
// Authenticator; a fake stands in for tests.
type LoginService interface {
	Login(ctx context.Context, role models.Role, identifier, password string) (models.Session, error)
}

// SessionStore is the persistence the controller hydrates from and writes
// through. Implemented by session.Store.
type SessionStore interface {
	Save(token string, user models.UserProfile) error
	Load() (models.Session, bool)
	Clear()
}

// Controller is the single owner of the in-memory auth state. Dashboards
// read the state through State(); the only writers are Hydrate, Login, and
// Logout. Concurrent logins are serialized so two interleaved responses can
// never race to write the state.
type Controller struct {
	store SessionStore
	login LoginService
	log   *zap.Logger

	hydrateOnce sync.Once

	mu    sync.Mutex
	state models.AuthState
	token string
}

// NewController builds a Controller in the Anonymous state. Call Hydrate
// once at boot to pick up a persisted session.
func NewController(store SessionStore, login LoginService, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store: store,
		login: login,
		log:   log,
		state: models.Anonymous(),
	}
}

// Hydrate reads the session store exactly once; repeated calls are no-ops.
// A valid stored session moves the controller to Authenticated without a
// network round-trip; anything else (absent, partial, corrupt) settles in
// Anonymous, with the store already self-healed.
func (c *Controller) Hydrate() {
	c.hydrateOnce.Do(func() {
		sess, ok := c.store.Load()
		if !ok {
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		user := sess.User
		c.state = models.AuthState{
			IsAuthenticated: true,
			Role:            user.Role,
			Username:        username(user),
			User:            &user,
		}
		c.token = sess.Token
		c.log.Info("session restored", zap.String("role", string(user.Role)))
	})
}

// Login delegates to the authenticator and, on success, persists the session
// before marking the state authenticated, so a crash in between never leaves
// the process authenticated with nothing on disk. On failure the state is
// unchanged and the error is returned for display. The controller mutex
// serializes rapid double-submits.
func (c *Controller) Login(ctx context.Context, role models.Role, identifier, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.login.Login(ctx, role, identifier, password)
	if err != nil {
		return err
	}

	if err := c.store.Save(sess.Token, sess.User); err != nil {
		// The session remains valid for this process; it just won't
		// survive a restart.
		c.log.Warn("session not persisted", zap.Error(err))
	}

	user := sess.User
	c.state = models.AuthState{
		IsAuthenticated: true,
		Role:            user.Role,
		Username:        identifier,
		User:            &user,
	}
	c.token = sess.Token
	return nil
}

// Logout clears the session store and resets the state to Anonymous. It is
// idempotent and never fails, even when nothing is stored.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Clear()
	c.state = models.Anonymous()
	c.token = ""
}

// ForceLogout is invoked when an authenticated call comes back 401: the
// stored token is no longer honored by the backend, so the session is torn
// down the same way an explicit logout would.
func (c *Controller) ForceLogout(reason string) {
	c.log.Info("forcing logout", zap.String("reason", reason))
	c.Logout()
}

// State returns a copy of the current auth state.
func (c *Controller) State() models.AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}

// Token returns the bearer token for authenticated calls, empty when
// Anonymous.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// username picks the display identifier for a hydrated profile: email, then
// phone, then the id.
func username(user models.UserProfile) string {
	switch {
	case user.Email != "":
		return user.Email
	case user.Phone != "":
		return user.Phone
	default:
		return user.ID
	}
}
