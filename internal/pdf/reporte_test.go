package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"unificador/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerarReporteInventario(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reportes")

	ruta, err := GenerarReporteInventario(DatosReporte{
		Empresa: "El Unificador",
		Metricas: model.MetricasReporte{
			TotalProductos:    3,
			StockTotal:        163,
			ValorInventario:   decimal.RequireFromString("38418.50"),
			ProductosActivos:  3,
			StockCriticoCount: 1,
		},
		Categorias: []FilaCategoria{
			{Categoria: "Construcción", Productos: 1, Unidades: 120, Valor: decimal.RequireFromString("28260.00")},
			{Categoria: "Pinturas", Productos: 1, Unidades: 35, Valor: decimal.RequireFromString("10146.50")},
		},
		StockCritico: []model.ProductoStockCritico{
			{Producto: "Tornillo 1/4 x 2", Stock: 8, Minimo: 10, Estado: "Critico"},
		},
	}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(ruta)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGenerarReporteSinTablasOpcionales(t *testing.T) {
	ruta, err := GenerarReporteInventario(DatosReporte{Empresa: "El Unificador"}, t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(ruta)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
