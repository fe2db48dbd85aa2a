package api

import (
	"context"

	"unificador/internal/model"
)

// LoginRequest is the credential exchange body. The backend names the email
// field "username".
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	TokenAcceso string        `json:"token_acceso"`
	TipoToken   string        `json:"tipo_token"`
	Usuario     model.Usuario `json:"usuario"`
}

// Login exchanges credentials for a token and the user profile. A 401 surfaces
// as an *apierror.APIError with the backend's detail message.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.postJSON(ctx, "/auth/login", LoginRequest{Username: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
