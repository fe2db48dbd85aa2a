package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"unificador/internal/model"
)

// ListarInventario fetches the full product collection.
func (c *Client) ListarInventario(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	if err := c.get(ctx, "/inventario", &productos); err != nil {
		return nil, err
	}
	return productos, nil
}

// ReducirStock removes cantidad units from productoID. The backend deletes
// the product entirely when the reduction exhausts its stock.
func (c *Client) ReducirStock(ctx context.Context, productoID, actorID, cantidad int) (*MensajeResponse, error) {
	params := url.Values{
		"usuario_id": {strconv.Itoa(actorID)},
		"cantidad":   {strconv.Itoa(cantidad)},
	}
	var resp MensajeResponse
	if err := c.del(ctx, queryPath(fmt.Sprintf("/productos/%d", productoID), params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EliminarProducto removes productoID permanently, movements included.
func (c *Client) EliminarProducto(ctx context.Context, productoID, actorID int) (*MensajeResponse, error) {
	params := url.Values{"usuario_id": {strconv.Itoa(actorID)}}
	var resp MensajeResponse
	if err := c.del(ctx, queryPath(fmt.Sprintf("/productos/%d", productoID), params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
