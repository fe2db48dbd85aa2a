package model

import "github.com/shopspring/decimal"

// ProductoCSV is one parsed row of a daily-closing CSV, as returned by the
// staging endpoint POST /cierres-diarios/subir-csv and echoed back verbatim
// to POST /cierres-diarios/procesar.
type ProductoCSV struct {
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Categoria    string          `json:"categoria"`
	Cantidad     int             `json:"cantidad"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
}

// CierreEscenificado is the staging response: rows parsed server-side that the
// client must confirm in a second request to commit the closing.
type CierreEscenificado struct {
	Success        bool          `json:"success"`
	Productos      []ProductoCSV `json:"productos"`
	TotalProductos int           `json:"total_productos"`
	NombreArchivo  string        `json:"nombre_archivo"`
}

// CierreResultado is the commit response of POST /cierres-diarios/procesar.
type CierreResultado struct {
	Success        bool   `json:"success"`
	Mensaje        string `json:"mensaje"`
	CierreID       int    `json:"cierre_id"`
	TotalProcesado int    `json:"total_procesado"`
}
