// Package api is the HTTP client for the El Unificador backend. One file per
// backend resource; all calls go through the shared do helper, which attaches
// the bearer token and a correlation id, decodes the standard {detail} error
// envelope, and logs every round trip.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"unificador/internal/apierror"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Client talks to the backend. It is safe for concurrent use; the token is
// set once after login and only read afterwards.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New builds a client for baseURL. timeout 0 means no client-side timeout,
// matching the original's behavior of waiting indefinitely.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer token returned by Login for subsequent calls.
func (c *Client) SetToken(token string) { c.token = token }

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// postJSON issues a POST with a JSON body and decodes the response into out.
// body may be nil for endpoints driven purely by query parameters.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	if body == nil {
		return c.do(ctx, http.MethodPost, path, "", nil, out)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: codificar cuerpo: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

// del issues a DELETE and decodes the response into out.
func (c *Client) del(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: construir solicitud: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Str("method", method).Str("path", path).
			Str("request_id", requestID).Err(err).Msg("api: fallo de conexion")
		return &apierror.ConnError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	log.Info().Str("method", method).Str("path", path).
		Str("request_id", requestID).Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).Msg("api: solicitud")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decodificar respuesta de %s: %w", path, err)
	}
	return nil
}

// decodeError reads the backend's {detail} envelope; bodies that do not parse
// still produce an APIError so callers always see the status code.
func decodeError(resp *http.Response) error {
	apiErr := &apierror.APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		_ = json.Unmarshal(data, apiErr)
	}
	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// queryPath joins path with URL-encoded query parameters.
func queryPath(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
