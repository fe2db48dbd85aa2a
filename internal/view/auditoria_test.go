package view

import (
	"context"
	"testing"
	"time"

	"unificador/internal/apitest"
	"unificador/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fecha(dia int, hora, minuto, segundo int) time.Time {
	return time.Date(2026, time.August, dia, hora, minuto, segundo, 0, time.Local)
}

func TestFiltroAuditoriaFechasInclusivas(t *testing.T) {
	d15 := fecha(15, 12, 0, 0)
	filtro := FiltroAuditoria{Desde: &d15, Hasta: &d15}

	// Cualquier hora dentro del día 15 pasa, incluidos los extremos.
	assert.True(t, filtro.Coincide(model.RegistroAuditoria{Fecha: fecha(15, 0, 0, 0)}))
	assert.True(t, filtro.Coincide(model.RegistroAuditoria{Fecha: fecha(15, 23, 59, 59)}))
	assert.True(t, filtro.Coincide(model.RegistroAuditoria{Fecha: fecha(15, 12, 30, 0)}))

	assert.False(t, filtro.Coincide(model.RegistroAuditoria{Fecha: fecha(14, 23, 59, 59)}))
	assert.False(t, filtro.Coincide(model.RegistroAuditoria{Fecha: fecha(16, 0, 0, 0)}))
}

func TestFiltroAuditoriaUsuarioPorNombreEmailOId(t *testing.T) {
	r := model.RegistroAuditoria{UsuarioID: 7, UsuarioNombre: "Ana Ríos", UsuarioEmail: "ana@unificador.com"}

	assert.True(t, FiltroAuditoria{Usuario: "ana"}.Coincide(r))
	assert.True(t, FiltroAuditoria{Usuario: "RÍOS"}.Coincide(r))
	assert.True(t, FiltroAuditoria{Usuario: "unificador.com"}.Coincide(r))
	assert.True(t, FiltroAuditoria{Usuario: "7"}.Coincide(r))
	assert.False(t, FiltroAuditoria{Usuario: "luis"}.Coincide(r))
}

func TestFiltroAuditoriaAccionParcial(t *testing.T) {
	r := model.RegistroAuditoria{Accion: model.AccionCierreDiario}
	assert.True(t, FiltroAuditoria{Accion: "cierre"}.Coincide(r))
	assert.False(t, FiltroAuditoria{Accion: "merma"}.Coincide(r))
}

func sembrarAuditoria(srv *apitest.Server) {
	srv.Auditoria = []model.RegistroAuditoria{
		{ID: 1, Fecha: fecha(10, 9, 0, 0), UsuarioID: 1, UsuarioNombre: "Jesús Ortega", Accion: model.AccionLogin},
		{ID: 2, Fecha: fecha(11, 18, 30, 0), UsuarioID: 1, UsuarioNombre: "Jesús Ortega", Accion: model.AccionCierreDiario},
		{ID: 3, Fecha: fecha(12, 10, 0, 0), UsuarioID: 3, UsuarioNombre: "Luis Vega", Accion: model.AccionSolicitudMerma},
	}
}

func TestAuditoriaFiltradosYAccionesUnicas(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	sembrarAuditoria(srv)

	v := NewAuditoria(cliente, sesionAdmin(), &notasSpy{})
	require.NoError(t, v.Cargar(context.Background()))
	require.Len(t, v.Registros, 3)

	// El backend sirve el registro más reciente primero.
	assert.Equal(t, 3, v.Registros[0].ID)

	v.Filtro.Usuario = "jesús"
	assert.Len(t, v.Filtrados(), 2)

	v.Filtro.Accion = "cierre"
	assert.Len(t, v.Filtrados(), 1)

	v.Filtro = FiltroAuditoria{}
	acciones := v.AccionesUnicas()
	assert.Equal(t, []string{model.AccionCierreDiario, model.AccionLogin, model.AccionSolicitudMerma}, acciones)
}
