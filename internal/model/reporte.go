package model

import "github.com/shopspring/decimal"

// Shapes served by the GET /reportes/* endpoints.

// MetricasReporte is the aggregate block of GET /reportes/metricas.
type MetricasReporte struct {
	TotalProductos    int             `json:"total_productos"`
	StockTotal        int             `json:"stock_total"`
	ValorInventario   decimal.Decimal `json:"valor_inventario"`
	StockCriticoCount int             `json:"stock_critico_count"`
	ProductosActivos  int             `json:"productos_activos"`
}

// ReporteCompleto is the full payload of GET /reportes/metricas.
type ReporteCompleto struct {
	Metricas             MetricasReporte        `json:"metricas"`
	ProductosMasVendidos []ProductoVendido      `json:"productos_mas_vendidos"`
	StockCritico         []ProductoStockCritico `json:"stock_critico"`
}

// VentaDia is one point of GET /reportes/ventas (last seven days).
type VentaDia struct {
	Fecha  string          `json:"fecha"`
	Ventas decimal.Decimal `json:"ventas"`
}

// ProductoStockCritico is one row of GET /reportes/stock-critico.
// Estado is "Critico" or "Bajo" as classified server-side.
type ProductoStockCritico struct {
	Producto string `json:"producto"`
	Stock    int    `json:"stock"`
	Minimo   int    `json:"minimo"`
	Estado   string `json:"estado"`
}

// ProductoVendido is one row of GET /reportes/productos-mas-vendidos.
type ProductoVendido struct {
	Producto string          `json:"producto"`
	Vendidos int             `json:"vendidos"`
	Ingresos decimal.Decimal `json:"ingresos"`
}
