// Package apierror defines the error taxonomy of the client.
// Every failure a view can see is one of four kinds: the backend rejected the
// request with its standard {detail} envelope, the connection itself failed,
// a client-side role check blocked the action before any call, or a form did
// not validate. Callers branch with errors.As / errors.Is.
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the backend's canonical 4xx/5xx envelope, decoded client-side.
type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
}

// ConnError wraps transport-level failures (DNS, refused, timeout).
type ConnError struct {
	Op  string
	Err error
}

func (e *ConnError) Error() string { return fmt.Sprintf("conexion: %s: %v", e.Op, e.Err) }
func (e *ConnError) Unwrap() error { return e.Err }

// ErrPermiso is returned when a client-side capability check blocks an action
// before any request is attempted. The server remains authoritative; this only
// mirrors its policy to avoid pointless round trips.
var ErrPermiso = errors.New("permisos insuficientes")

// ValidationError carries per-field failures from form validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validacion: %d campos invalidos", len(e.Fields))
}

// IsAPIStatus reports whether err is an APIError with the given status code.
func IsAPIStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
