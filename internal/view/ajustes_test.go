package view

import (
	"context"
	"testing"

	"unificador/internal/apierror"
	"unificador/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnviarMermaCantidadMayorAlStockNoTocaLaRed(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewAjustesStock(cliente, sesionEmpleado(), notas)
	require.NoError(t, v.Cargar(context.Background()))

	err := v.Enviar(context.Background(), MermaForm{
		ProductoID: 3, // stock actual: 8
		Cantidad:   9,
		Motivo:     "Producto Dañado",
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, srv.Hit("POST /mermas/registrar"))
	assert.Contains(t, notas.errores, "No hay suficiente stock")
}

func TestEnviarMermaMotivoFueraDelCatalogo(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	v := NewAjustesStock(cliente, sesionEmpleado(), &notasSpy{})
	require.NoError(t, v.Cargar(context.Background()))

	err := v.Enviar(context.Background(), MermaForm{ProductoID: 1, Cantidad: 2, Motivo: "Se me antojó"})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, srv.Hit("POST /mermas/registrar"))
}

func TestEnviarMermaEmpleadoQuedaPendienteYElStockNoCambia(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewAjustesStock(cliente, sesionEmpleado(), notas)
	require.NoError(t, v.Cargar(context.Background()))

	require.NoError(t, v.Enviar(context.Background(), MermaForm{
		ProductoID: 2, // stock actual: 35
		Cantidad:   5,
		Motivo:     "Vencimiento",
	}))
	assert.Equal(t, 1, srv.Hit("POST /mermas/registrar"))
	require.Len(t, notas.exitos, 1)
	assert.Contains(t, notas.exitos[0], "Esperando aprobación")

	// El refetch posterior sigue mostrando el stock original: la merma de un
	// empleado no se aplica hasta que el dueño la apruebe.
	p := v.ProductoPorID(2)
	require.NotNil(t, p)
	assert.Equal(t, 35, p.StockActual)

	require.Len(t, srv.Mermas, 1)
	assert.Equal(t, model.EstadoPendiente, srv.Mermas[0].Estado)
}

func TestEnviarMermaAdminSeAplicaDeInmediato(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewAjustesStock(cliente, sesionAdmin(), notas)
	require.NoError(t, v.Cargar(context.Background()))

	require.NoError(t, v.Enviar(context.Background(), MermaForm{
		ProductoID: 2,
		Cantidad:   5,
		Motivo:     "Merma Normal",
	}))
	require.Len(t, notas.exitos, 1)
	assert.Contains(t, notas.exitos[0], "registrada y aplicada")

	p := v.ProductoPorID(2)
	require.NotNil(t, p)
	assert.Equal(t, 30, p.StockActual)
	assert.Equal(t, model.EstadoAprobada, srv.Mermas[0].Estado)
}

func TestStockDespues(t *testing.T) {
	_, cliente := servidorSembrado(t)
	v := NewAjustesStock(cliente, sesionEmpleado(), &notasSpy{})
	require.NoError(t, v.Cargar(context.Background()))

	assert.Equal(t, 3, v.StockDespues(3, 5))
	assert.Equal(t, -2, v.StockDespues(3, 10))
	assert.Zero(t, v.StockDespues(99, 1))
}

func TestMotivoValido(t *testing.T) {
	for _, m := range model.MotivosMerma {
		assert.True(t, MotivoValido(m))
	}
	assert.False(t, MotivoValido("otro motivo"))
	assert.False(t, MotivoValido(""))
}
