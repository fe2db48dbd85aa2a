package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"unificador/internal/model"
)

// CrearUsuarioRequest is the body of POST /usuarios.
type CrearUsuarioRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

// MensajeResponse is the generic {success, mensaje} acknowledgment several
// mutating endpoints return.
type MensajeResponse struct {
	Success bool   `json:"success"`
	Mensaje string `json:"mensaje"`
}

// ListarUsuarios fetches all users.
func (c *Client) ListarUsuarios(ctx context.Context) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	if err := c.get(ctx, "/usuarios", &usuarios); err != nil {
		return nil, err
	}
	return usuarios, nil
}

// CrearUsuario registers a new account.
func (c *Client) CrearUsuario(ctx context.Context, req CrearUsuarioRequest) (*model.Usuario, error) {
	var creado model.Usuario
	if err := c.postJSON(ctx, "/usuarios", req, &creado); err != nil {
		return nil, err
	}
	return &creado, nil
}

// EliminarUsuario deactivates usuarioID. The acting user travels as a query
// parameter for server-side authorization.
func (c *Client) EliminarUsuario(ctx context.Context, usuarioID, actorID int) (*MensajeResponse, error) {
	params := url.Values{"usuario_actual_id": {strconv.Itoa(actorID)}}
	var resp MensajeResponse
	if err := c.del(ctx, queryPath(fmt.Sprintf("/usuarios/%d", usuarioID), params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
