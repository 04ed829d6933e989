// ABOUTME: Session state as an explicit variant: anonymous or authenticated
// ABOUTME: Sessions persist to a state file so a restart keeps the login
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Session is either anonymous or carries the signed-in user. Handlers
// branch on Authenticated instead of null-checking user fields.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`
	AccessToken   string `json:"access_token,omitempty"`
}

// Anonymous is the zero session.
func Anonymous() Session {
	return Session{}
}

// Authenticated builds a signed-in session.
func Authenticated(userID, email, token string) Session {
	return Session{Authenticated: true, UserID: userID, Email: email, AccessToken: token}
}

// DefaultSessionPath returns the per-user state file location.
func DefaultSessionPath() (string, error) {
	return xdg.StateFile("prospekt/session.json")
}

// Load reads a stored session. A missing file is an anonymous session,
// not an error.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Anonymous(), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session: %w", err)
	}
	return s, nil
}

// Save writes the session with owner-only permissions.
func Save(path string, s Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent file is fine.
func Clear(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
