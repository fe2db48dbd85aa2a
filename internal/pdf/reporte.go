// Package pdf renders the advanced-report summary as an A4 document:
// header with company name and date, the aggregate metrics block, the
// per-category table and the critical-stock table.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"unificador/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// FilaCategoria is one row of the per-category table.
type FilaCategoria struct {
	Categoria string
	Productos int
	Unidades  int
	Valor     decimal.Decimal
}

// DatosReporte is everything the document needs, precomputed by the caller.
type DatosReporte struct {
	Empresa      string
	Metricas     model.MetricasReporte
	Categorias   []FilaCategoria
	StockCritico []model.ProductoStockCritico
}

// GenerarReporteInventario writes the report to dir (created if needed) and
// returns the absolute path of the generated file.
func GenerarReporteInventario(datos DatosReporte, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	ruta := filepath.Join(dir, fmt.Sprintf("reporte_%s.pdf", time.Now().Format("20060102_150405")))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, datos.Empresa, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Reporte de Inventario", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Metrics block ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Resumen", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	m := datos.Metricas
	filas := [][2]string{
		{"Total de productos", fmt.Sprintf("%d", m.TotalProductos)},
		{"Stock total", fmt.Sprintf("%d unidades", m.StockTotal)},
		{"Valor de inventario", "$" + m.ValorInventario.StringFixed(2)},
		{"Productos activos", fmt.Sprintf("%d", m.ProductosActivos)},
		{"Productos en stock crítico", fmt.Sprintf("%d", m.StockCriticoCount)},
	}
	for _, fila := range filas {
		pdf.CellFormat(contentW*0.6, 6, fila[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, fila[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Per-category table ────────────────────────────────────────────────────
	if len(datos.Categorias) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Inventario por categoría", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.4, 6, "Categoría", "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.18, 6, "Productos", "B", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.18, 6, "Unidades", "B", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.24, 6, "Valor", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, c := range datos.Categorias {
			pdf.CellFormat(contentW*0.4, 6, c.Categoria, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.18, 6, fmt.Sprintf("%d", c.Productos), "", 0, "R", false, 0, "")
			pdf.CellFormat(contentW*0.18, 6, fmt.Sprintf("%d", c.Unidades), "", 0, "R", false, 0, "")
			pdf.CellFormat(contentW*0.24, 6, "$"+c.Valor.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	// ── Critical stock table ──────────────────────────────────────────────────
	if len(datos.StockCritico) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Stock crítico", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.5, 6, "Producto", "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.16, 6, "Stock", "B", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.16, 6, "Mínimo", "B", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.18, 6, "Estado", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range datos.StockCritico {
			pdf.CellFormat(contentW*0.5, 6, p.Producto, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.16, 6, fmt.Sprintf("%d", p.Stock), "", 0, "R", false, 0, "")
			pdf.CellFormat(contentW*0.16, 6, fmt.Sprintf("%d", p.Minimo), "", 0, "R", false, 0, "")
			pdf.CellFormat(contentW*0.18, 6, p.Estado, "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(ruta); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", ruta, err)
	}
	return ruta, nil
}
