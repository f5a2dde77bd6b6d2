// Package session persists the authentication token and user profile across
// console restarts. It is the sole source of truth for whether the user is
// to be treated as logged in after a restart.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/medicnotes/medicnotes/internal/models"
)

// Entry names double as file names and are the de-facto wire format shared
// with the backend-issued tokens; do not rename.
const (
	tokenEntry        = "authToken"
	profileEntry      = "userSession"
	userIDEntry       = "userId"
	adminProfileEntry = "adminProfile"
)

// Store is a file-backed key/value store rooted at a directory, one file per
// entry. It never panics on storage failures: loads fail closed to Absent,
// and corrupt state is deleted so a token is never left without a matching
// profile.
type Store struct {
	dir string
	log *zap.Logger
}

// NewStore returns a Store rooted at dir. The directory is created lazily on
// the first Save.
func NewStore(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, log: log}
}

func (s *Store) path(entry string) string {
	return filepath.Join(s.dir, entry)
}

// Save persists the token and serialized profile. If any write fails the
// partially written entries are removed and the error is returned, so the
// caller never observes a half-persisted session.
func (s *Store) Save(token string, user models.UserProfile) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	buf, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	writes := []struct {
		entry string
		data  []byte
	}{
		{tokenEntry, []byte(token)},
		{profileEntry, buf},
		{userIDEntry, []byte(user.ID)},
	}
	for _, w := range writes {
		if err := os.WriteFile(s.path(w.entry), w.data, 0o600); err != nil {
			s.Clear()
			return fmt.Errorf("write %s: %w", w.entry, err)
		}
	}
	return nil
}

// Load reads the stored session. The second return value is false when no
// session is present. A token without a profile, or a profile that fails to
// parse, counts as absent and triggers a self-healing Clear.
func (s *Store) Load() (models.Session, bool) {
	token, err := os.ReadFile(s.path(tokenEntry))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("session store unreadable, treating as logged out", zap.Error(err))
		}
		return models.Session{}, false
	}

	raw, err := os.ReadFile(s.path(profileEntry))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("session profile unreadable, treating as logged out", zap.Error(err))
		}
		// Token without profile: heal so the next Load starts clean.
		s.Clear()
		return models.Session{}, false
	}

	var user models.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		s.log.Warn("discarding stored session",
			zap.Error(fmt.Errorf("%w: %v", models.ErrCorruptSession, err)))
		s.Clear()
		return models.Session{}, false
	}

	return models.Session{Token: string(token), User: user}, true
}

// Clear deletes the token, profile, and any cached derived data. Safe to
// call when nothing is stored.
func (s *Store) Clear() {
	for _, entry := range []string{tokenEntry, profileEntry, userIDEntry, adminProfileEntry} {
		if err := os.Remove(s.path(entry)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to remove session entry", zap.String("entry", entry), zap.Error(err))
		}
	}
}

// CacheAdminProfile stores a fetched admin profile snapshot so the dashboard
// does not refetch it on every visit. Failures are logged and ignored.
func (s *Store) CacheAdminProfile(profile models.Admin) {
	buf, err := json.Marshal(profile)
	if err != nil {
		s.log.Warn("failed to encode admin profile cache", zap.Error(err))
		return
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.log.Warn("failed to create session dir for cache", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path(adminProfileEntry), buf, 0o600); err != nil {
		s.log.Warn("failed to write admin profile cache", zap.Error(err))
	}
}

// CachedAdminProfile returns the cached admin profile snapshot, if any. A
// corrupt cache entry is deleted and reported as absent.
func (s *Store) CachedAdminProfile() (models.Admin, bool) {
	raw, err := os.ReadFile(s.path(adminProfileEntry))
	if err != nil {
		return models.Admin{}, false
	}
	var profile models.Admin
	if err := json.Unmarshal(raw, &profile); err != nil {
		_ = os.Remove(s.path(adminProfileEntry))
		return models.Admin{}, false
	}
	return profile, true
}
