package auth

import (
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/bookingai/bookingai-engine/pkg/models"
)

// SessionName is the name of the login session cookie.
const SessionName = "bookingai-session"

// Session value keys.
const (
	SessionKeyUserID = "user_id"
	SessionKeyRole   = "role"
)

// SessionManager issues and reads signed login session cookies.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a cookie-based session manager.
//
// The secret can be any passphrase; it is SHA-256 hashed to derive a 32-byte
// signing key, so it must be the same across restarts and replicas.
// Cookies are HttpOnly with SameSite=Lax; secure controls the Secure flag.
func NewSessionManager(secret string, maxAge int, secure bool) *SessionManager {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store}
}

// Login stores the user's identity in the session cookie.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, user *models.User) error {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		// A cookie signed with an old key decodes as an error but still
		// yields a fresh session that can be saved.
		session, err = m.store.New(r, SessionName)
		if session == nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
	}

	session.Values[SessionKeyUserID] = user.ID.String()
	session.Values[SessionKeyRole] = string(user.Role)

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout expires the session cookie.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionName)
	if session == nil {
		return nil
	}

	session.Values = map[any]any{}
	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Identity reads the authenticated identity from the request's session cookie.
// ok is false when there is no valid session.
func (m *SessionManager) Identity(r *http.Request) (Identity, bool) {
	session, err := m.store.Get(r, SessionName)
	if err != nil || session == nil {
		return Identity{}, false
	}

	rawID, _ := session.Values[SessionKeyUserID].(string)
	rawRole, _ := session.Values[SessionKeyRole].(string)

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Identity{}, false
	}
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return Identity{}, false
	}

	return Identity{UserID: userID, Role: role}, true
}
