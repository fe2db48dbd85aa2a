package api

import (
	"context"

	"unificador/internal/model"
)

// ListarAuditoria fetches the audit log (most recent first, server-capped).
func (c *Client) ListarAuditoria(ctx context.Context) ([]model.RegistroAuditoria, error) {
	var registros []model.RegistroAuditoria
	if err := c.get(ctx, "/auditoria", &registros); err != nil {
		return nil, err
	}
	return registros, nil
}

// RevertirProcesoRequest is the body of POST /revertir-proceso.
type RevertirProcesoRequest struct {
	ProcesoID   int    `json:"proceso_id"`
	ProcesoTipo string `json:"proceso_tipo"`
}

// RevertirProceso undoes a daily closing identified by its audit record id.
func (c *Client) RevertirProceso(ctx context.Context, procesoID int) (*MensajeResponse, error) {
	req := RevertirProcesoRequest{ProcesoID: procesoID, ProcesoTipo: "auditoria"}
	var resp MensajeResponse
	if err := c.postJSON(ctx, "/revertir-proceso", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
