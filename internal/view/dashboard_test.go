package view

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unificador/internal/api"
	"unificador/internal/model"
	"unificador/internal/rbac"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValorInventario(t *testing.T) {
	assert.True(t, ValorInventario(nil).IsZero())
	assert.True(t, ValorInventario([]model.Producto{}).IsZero())

	productos := []model.Producto{
		{StockActual: 10, PrecioVenta: precio("235.50")},
		{StockActual: 0, PrecioVenta: precio("99.99")},
		{StockActual: 3, PrecioVenta: precio("1.50")},
	}
	assert.True(t, precio("2359.50").Equal(ValorInventario(productos)))
}

func TestContarStockBajo(t *testing.T) {
	productos := []model.Producto{
		{StockActual: 49},
		{StockActual: 50},
		{StockActual: 8},
	}
	// Estrictamente por debajo del umbral.
	assert.Equal(t, 2, ContarStockBajo(productos, 50))
	assert.Zero(t, ContarStockBajo(nil, 50))
}

func TestMenuPara(t *testing.T) {
	assert.Len(t, MenuPara(rbac.Empleado), 4)
	assert.Len(t, MenuPara(rbac.Administrador), 8)
	assert.Len(t, MenuPara(rbac.Dueno), 10)

	assert.NotContains(t, MenuPara(rbac.Administrador), SeccionAprobarMermas)
	assert.NotContains(t, MenuPara(rbac.Administrador), SeccionRevertirProcs)
	assert.Contains(t, MenuPara(rbac.Dueno), SeccionAprobarMermas)
	assert.Contains(t, MenuPara(rbac.Dueno), SeccionRevertirProcs)
}

func TestDashboardIrSoloASeccionesDelMenu(t *testing.T) {
	_, cliente := servidorSembrado(t)

	d := NewDashboard(cliente, sesionEmpleado())
	assert.Equal(t, SeccionInicio, d.Seccion())

	require.NoError(t, d.Ir(SeccionConsultaInv))
	assert.Equal(t, SeccionConsultaInv, d.Seccion())

	assert.Error(t, d.Ir(SeccionAprobarMermas))
	assert.Equal(t, SeccionConsultaInv, d.Seccion())

	d.Volver()
	assert.Equal(t, SeccionInicio, d.Seccion())
}

func TestCargarMetricas(t *testing.T) {
	_, cliente := servidorSembrado(t)

	d := NewDashboard(cliente, sesionDueno())
	d.CargarMetricas(context.Background())

	require.Equal(t, EstadoCargado, d.Estado())
	assert.Equal(t, 3, d.Metricas.TotalProductos)
	assert.Equal(t, 3, d.Metricas.TotalUsuarios)
	// 120*235.50 + 35*289.90 + 8*1.50
	assert.True(t, precio("38418.50").Equal(d.Metricas.ValorInventario))
	// Con el umbral por defecto (50): la pintura (35) y el tornillo (8).
	assert.Equal(t, 2, d.Metricas.StockBajo)
}

func TestCargarMetricasFalloParcialDegradaACero(t *testing.T) {
	// Backend a medias: inventario y usuarios responden, configuraciones no.
	mux := http.NewServeMux()
	mux.HandleFunc("/inventario", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Producto{
			{ID: 1, Nombre: "Cemento", StockActual: 10, PrecioVenta: precio("235.50")},
		})
	})
	mux.HandleFunc("/usuarios", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Usuario{{ID: 1, Rol: "dueño"}})
	})
	mux.HandleFunc("/configuraciones", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"error interno"}`, http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	d := NewDashboard(api.New(ts.URL, 5*time.Second), sesionDueno())
	d.CargarMetricas(context.Background())

	// La falla parcial no se distingue de datos vacíos: todo en cero.
	assert.Equal(t, EstadoCargado, d.Estado())
	assert.Zero(t, d.Metricas.TotalProductos)
	assert.Zero(t, d.Metricas.TotalUsuarios)
	assert.Zero(t, d.Metricas.StockBajo)
	assert.True(t, decimal.Zero.Equal(d.Metricas.ValorInventario))
}
