// Package session persists the authenticated identity between runs: an
// opaque token plus the serialized user profile, cleared only on explicit
// logout. It plays the role a browser's local storage would.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"unificador/internal/model"
	"unificador/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSesion is returned by Current when no session file exists.
var ErrNoSesion = errors.New("sesion: no hay sesion activa")

// Session is the immutable value handed to every view. Views never read
// ambient state; role checks go through Rol().
type Session struct {
	Token   string        `json:"token"`
	Usuario model.Usuario `json:"usuario"`
	// ExpiraEn is a display-only hint taken from the token's exp claim when
	// the token happens to be a JWT. No refresh logic exists client-side.
	ExpiraEn *time.Time `json:"expira_en,omitempty"`
}

// Rol returns the parsed role of the session's user.
func (s Session) Rol() rbac.Role { return rbac.ParseRol(s.Usuario.Rol) }

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a store rooted at path. An empty path resolves to
// $XDG_CONFIG_HOME/unificador/session.json (or the OS equivalent).
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("sesion: resolver directorio: %w", err)
		}
		path = filepath.Join(dir, "unificador", "session.json")
	}
	return &Store{path: path}, nil
}

// Save persists the token and user profile. The expiry hint is recomputed
// from the token on every save.
func (st *Store) Save(token string, usuario model.Usuario) (Session, error) {
	s := Session{Token: token, Usuario: usuario, ExpiraEn: expiraDe(token)}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return Session{}, fmt.Errorf("sesion: crear directorio: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return Session{}, err
	}
	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		return Session{}, fmt.Errorf("sesion: escribir: %w", err)
	}
	return s, nil
}

// Current reads the persisted session synchronously.
func (st *Store) Current() (Session, error) {
	data, err := os.ReadFile(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSesion
	}
	if err != nil {
		return Session{}, fmt.Errorf("sesion: leer: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("sesion: archivo corrupto: %w", err)
	}
	return s, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// expiraDe extracts the exp claim if the token parses as a JWT. The backend
// may issue opaque tokens, in which case there is no hint.
func expiraDe(token string) *time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return &exp.Time
}
