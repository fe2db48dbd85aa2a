package view

import (
	"context"
	"os"
	"testing"

	"unificador/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorCategoriaAgregaYOrdenaPorValor(t *testing.T) {
	_, cliente := servidorSembrado(t)
	v := NewReportes(cliente, sesionAdmin(), &notasSpy{})
	v.Productos = []model.Producto{
		{Categoria: "Construcción", StockActual: 10, PrecioVenta: precio("100.00")},
		{Categoria: "Construcción", StockActual: 5, PrecioVenta: precio("20.00")},
		{Categoria: "Pinturas", StockActual: 2, PrecioVenta: precio("1000.00")},
		{Categoria: "", StockActual: 1, PrecioVenta: precio("50.00")},
	}

	resumen := v.PorCategoria()
	require.Len(t, resumen, 3)

	assert.Equal(t, "Pinturas", resumen[0].Categoria)
	assert.True(t, precio("2000.00").Equal(resumen[0].Valor))

	assert.Equal(t, "Construcción", resumen[1].Categoria)
	assert.Equal(t, 2, resumen[1].Productos)
	assert.Equal(t, 15, resumen[1].Unidades)
	assert.True(t, precio("1100.00").Equal(resumen[1].Valor))

	// Los productos sin categoría se agrupan bajo una etiqueta propia.
	assert.Equal(t, "Sin categoría", resumen[2].Categoria)
}

func TestTotalVentas(t *testing.T) {
	_, cliente := servidorSembrado(t)
	v := NewReportes(cliente, sesionAdmin(), &notasSpy{})
	assert.True(t, v.TotalVentas().IsZero())

	v.Ventas = []model.VentaDia{
		{Fecha: "2026-08-26", Ventas: precio("1500.50")},
		{Fecha: "2026-08-27", Ventas: precio("899.50")},
	}
	assert.True(t, precio("2400.00").Equal(v.TotalVentas()))
}

func TestExportarPDFSinCargarFalla(t *testing.T) {
	_, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewReportes(cliente, sesionAdmin(), notas)

	_, err := v.ExportarPDF(t.TempDir())
	assert.ErrorIs(t, err, errSinDatos)
	assert.Contains(t, notas.errores, "Carga los reportes antes de exportar")
}

func TestExportarPDFGeneraElArchivo(t *testing.T) {
	_, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewReportes(cliente, sesionAdmin(), notas)
	require.NoError(t, v.Cargar(context.Background()))
	require.Equal(t, EstadoCargado, v.Estado())

	dir := t.TempDir()
	ruta, err := v.ExportarPDF(dir)
	require.NoError(t, err)

	info, err := os.Stat(ruta)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	require.NotEmpty(t, notas.exitos)
}
