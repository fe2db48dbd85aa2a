package api

import (
	"context"

	"unificador/internal/model"
)

// ObtenerReporteMetricas fetches the consolidated report block.
func (c *Client) ObtenerReporteMetricas(ctx context.Context) (*model.ReporteCompleto, error) {
	var resp model.ReporteCompleto
	if err := c.get(ctx, "/reportes/metricas", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ObtenerReporteVentas fetches the last seven days of sales.
func (c *Client) ObtenerReporteVentas(ctx context.Context) ([]model.VentaDia, error) {
	var ventas []model.VentaDia
	if err := c.get(ctx, "/reportes/ventas", &ventas); err != nil {
		return nil, err
	}
	return ventas, nil
}

// ObtenerStockCritico fetches products at or near their minimum stock.
func (c *Client) ObtenerStockCritico(ctx context.Context) ([]model.ProductoStockCritico, error) {
	var filas []model.ProductoStockCritico
	if err := c.get(ctx, "/reportes/stock-critico", &filas); err != nil {
		return nil, err
	}
	return filas, nil
}

// ObtenerProductosMasVendidos fetches the top five products by outgoing units.
func (c *Client) ObtenerProductosMasVendidos(ctx context.Context) ([]model.ProductoVendido, error) {
	var filas []model.ProductoVendido
	if err := c.get(ctx, "/reportes/productos-mas-vendidos", &filas); err != nil {
		return nil, err
	}
	return filas, nil
}
