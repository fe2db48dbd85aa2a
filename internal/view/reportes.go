package view

import (
	"context"
	"sort"

	"unificador/internal/api"
	"unificador/internal/model"
	"unificador/internal/pdf"
	"unificador/internal/session"

	"github.com/shopspring/decimal"
)

// CategoriaResumen aggregates the inventory of one category.
type CategoriaResumen struct {
	Categoria string
	Productos int
	Unidades  int
	Valor     decimal.Decimal
}

// Reportes backs both the basic (employee) and advanced (admin) report
// screens: server-computed figures from /reportes/* plus client-side
// per-category aggregation over the inventory.
type Reportes struct {
	api   *api.Client
	ses   session.Session
	notas Notifier

	estado Estado

	Resumen      *model.ReporteCompleto
	Ventas       []model.VentaDia
	StockCritico []model.ProductoStockCritico
	MasVendidos  []model.ProductoVendido
	Productos    []model.Producto
}

func NewReportes(client *api.Client, ses session.Session, n Notifier) *Reportes {
	return &Reportes{api: client, ses: ses, notas: n}
}

func (v *Reportes) Estado() Estado { return v.estado }

// Cargar pulls every report block the screens tab between.
func (v *Reportes) Cargar(ctx context.Context) error {
	v.estado = EstadoCargando

	resumen, err := v.api.ObtenerReporteMetricas(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar reportes")
		return err
	}
	ventas, err := v.api.ObtenerReporteVentas(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar ventas")
		return err
	}
	critico, err := v.api.ObtenerStockCritico(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar stock crítico")
		return err
	}
	vendidos, err := v.api.ObtenerProductosMasVendidos(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar productos más vendidos")
		return err
	}
	productos, err := v.api.ListarInventario(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar el inventario")
		return err
	}

	v.Resumen = resumen
	v.Ventas = ventas
	v.StockCritico = critico
	v.MasVendidos = vendidos
	v.Productos = productos
	v.estado = EstadoCargado
	return nil
}

// PorCategoria aggregates product count, units and inventory value per
// category, sorted by value descending.
func (v *Reportes) PorCategoria() []CategoriaResumen {
	porCat := make(map[string]*CategoriaResumen)
	for _, p := range v.Productos {
		cat := p.Categoria
		if cat == "" {
			cat = "Sin categoría"
		}
		res, ok := porCat[cat]
		if !ok {
			res = &CategoriaResumen{Categoria: cat, Valor: decimal.Zero}
			porCat[cat] = res
		}
		res.Productos++
		res.Unidades += p.StockActual
		res.Valor = res.Valor.Add(p.PrecioVenta.Mul(decimal.NewFromInt(int64(p.StockActual))))
	}
	out := make([]CategoriaResumen, 0, len(porCat))
	for _, res := range porCat {
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Valor.Equal(out[j].Valor) {
			return out[i].Valor.GreaterThan(out[j].Valor)
		}
		return out[i].Categoria < out[j].Categoria
	})
	return out
}

// TotalVentas sums the fetched daily sales.
func (v *Reportes) TotalVentas() decimal.Decimal {
	total := decimal.Zero
	for _, dia := range v.Ventas {
		total = total.Add(dia.Ventas)
	}
	return total
}

// ExportarPDF writes the advanced-report summary to a PDF under dir and
// returns its path.
func (v *Reportes) ExportarPDF(dir string) (string, error) {
	if v.Resumen == nil {
		v.notas.Error("Carga los reportes antes de exportar")
		return "", errSinDatos
	}
	ruta, err := pdf.GenerarReporteInventario(pdf.DatosReporte{
		Empresa:      "El Unificador",
		Metricas:     v.Resumen.Metricas,
		Categorias:   datosCategorias(v.PorCategoria()),
		StockCritico: v.StockCritico,
	}, dir)
	if err != nil {
		v.notas.Error("No se pudo generar el PDF")
		return "", err
	}
	v.notas.Exito("Reporte exportado: " + ruta)
	return ruta, nil
}

func datosCategorias(resumen []CategoriaResumen) []pdf.FilaCategoria {
	out := make([]pdf.FilaCategoria, 0, len(resumen))
	for _, r := range resumen {
		out = append(out, pdf.FilaCategoria{
			Categoria: r.Categoria,
			Productos: r.Productos,
			Unidades:  r.Unidades,
			Valor:     r.Valor,
		})
	}
	return out
}
