package model

import "github.com/shopspring/decimal"

// Producto is an inventory item as served by GET /inventario.
// The client never owns a canonical copy: every mutation is followed by a
// full refetch, so instances are transient snapshots.
type Producto struct {
	ID           int             `json:"id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Categoria    string          `json:"categoria"`
	StockActual  int             `json:"stock_actual"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
}
