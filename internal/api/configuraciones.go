package api

import (
	"context"

	"unificador/internal/model"
)

// ObtenerConfiguraciones fetches the flat clave→valor settings map.
func (c *Client) ObtenerConfiguraciones(ctx context.Context) (map[string]string, error) {
	configs := make(map[string]string)
	if err := c.get(ctx, "/configuraciones", &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// ActualizarConfiguraciones writes multiple settings in one request.
func (c *Client) ActualizarConfiguraciones(ctx context.Context, pares []model.ClaveValor) (*MensajeResponse, error) {
	var resp MensajeResponse
	if err := c.postJSON(ctx, "/configuraciones/actualizar-multiples", pares, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
