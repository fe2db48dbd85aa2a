package api

import (
	"context"
	"net/url"
	"strconv"

	"unificador/internal/model"
)

// RegistrarMermaRequest is the body of POST /mermas/registrar.
type RegistrarMermaRequest struct {
	ProductoID    int    `json:"producto_id"`
	Cantidad      int    `json:"cantidad"`
	Motivo        string `json:"motivo"`
	Observaciones string `json:"observaciones"`
	UsuarioID     int    `json:"usuario_id"`
}

// RegistrarMermaResponse discriminates the two submission outcomes: estado
// "aprobada" took effect immediately, "pendiente" awaits owner approval.
type RegistrarMermaResponse struct {
	Success bool   `json:"success"`
	Mensaje string `json:"mensaje"`
	Estado  string `json:"estado"`
	MermaID int    `json:"merma_id"`
}

// RegistrarMerma submits a shrinkage request. Approval policy is decided
// server-side from the submitting user's role.
func (c *Client) RegistrarMerma(ctx context.Context, req RegistrarMermaRequest) (*RegistrarMermaResponse, error) {
	var resp RegistrarMermaResponse
	if err := c.postJSON(ctx, "/mermas/registrar", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListarMermasPendientes fetches all requests still awaiting a decision.
func (c *Client) ListarMermasPendientes(ctx context.Context) ([]model.MermaSolicitud, error) {
	var mermas []model.MermaSolicitud
	if err := c.get(ctx, "/mermas/pendientes", &mermas); err != nil {
		return nil, err
	}
	return mermas, nil
}

// AprobarMerma applies a pending request, decrementing the product's stock.
func (c *Client) AprobarMerma(ctx context.Context, mermaID, actorID int) (*MensajeResponse, error) {
	params := url.Values{
		"merma_id":   {strconv.Itoa(mermaID)},
		"usuario_id": {strconv.Itoa(actorID)},
	}
	var resp MensajeResponse
	if err := c.postJSON(ctx, queryPath("/mermas/aprobar", params), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RechazarMerma declines a pending request. motivoRechazo is mandatory.
func (c *Client) RechazarMerma(ctx context.Context, mermaID, actorID int, motivoRechazo string) (*MensajeResponse, error) {
	params := url.Values{
		"merma_id":       {strconv.Itoa(mermaID)},
		"usuario_id":     {strconv.Itoa(actorID)},
		"motivo_rechazo": {motivoRechazo},
	}
	var resp MensajeResponse
	if err := c.postJSON(ctx, queryPath("/mermas/rechazar", params), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
