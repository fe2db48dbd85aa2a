package view

import (
	"context"
	"testing"

	"unificador/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEliminarUsuarioNuncaSePermiteSobreUnoMismo(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	conf := &confSpy{aceptar: true}
	notas := &notasSpy{}
	v := NewGestionUsuarios(cliente, sesionDueno(), notas, conf)
	require.NoError(t, v.Cargar(context.Background()))

	err := v.Eliminar(context.Background(), 1) // la sesión es el usuario 1
	assert.ErrorIs(t, err, apierror.ErrPermiso)
	// La guarda corre antes de confirmar y antes de cualquier solicitud.
	assert.Empty(t, conf.preguntas)
	assert.Zero(t, srv.Hit("DELETE /usuarios/:id"))
	assert.Contains(t, notas.errores, "No puedes eliminar tu propio usuario")
}

func TestEliminarUsuarioSoloDueno(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	v := NewGestionUsuarios(cliente, sesionAdmin(), &notasSpy{}, &confSpy{aceptar: true})
	require.NoError(t, v.Cargar(context.Background()))

	err := v.Eliminar(context.Background(), 3)
	assert.ErrorIs(t, err, apierror.ErrPermiso)
	assert.Zero(t, srv.Hit("DELETE /usuarios/:id"))
}

func TestEliminarUsuarioRefrescaLaLista(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	v := NewGestionUsuarios(cliente, sesionDueno(), &notasSpy{}, &confSpy{aceptar: true})
	require.NoError(t, v.Cargar(context.Background()))
	require.Len(t, v.Usuarios, 3)

	require.NoError(t, v.Eliminar(context.Background(), 3))
	assert.Equal(t, 1, srv.Hit("DELETE /usuarios/:id"))
	assert.Len(t, v.Usuarios, 2)
}

func TestCrearUsuarioRequiereRolDueno(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	v := NewGestionUsuarios(cliente, sesionAdmin(), &notasSpy{}, &confSpy{})
	require.NoError(t, v.Cargar(context.Background()))

	err := v.Crear(context.Background(), UsuarioForm{
		Nombre: "Nuevo", Email: "nuevo@unificador.com", Password: "secreto9", Rol: "empleado",
	})
	assert.ErrorIs(t, err, apierror.ErrPermiso)
	assert.Zero(t, srv.Hit("POST /usuarios"))
}

func TestCrearUsuarioPasswordCorta(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewGestionUsuarios(cliente, sesionDueno(), notas, &confSpy{})
	require.NoError(t, v.Cargar(context.Background()))

	err := v.Crear(context.Background(), UsuarioForm{
		Nombre: "Nuevo", Email: "nuevo@unificador.com", Password: "abc", Rol: "empleado",
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, srv.Hit("POST /usuarios"))
	assert.Contains(t, notas.errores, "La contraseña debe tener al menos 6 caracteres")
}

func TestCrearUsuarioExitoso(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewGestionUsuarios(cliente, sesionDueno(), notas, &confSpy{})
	require.NoError(t, v.Cargar(context.Background()))

	require.NoError(t, v.Crear(context.Background(), UsuarioForm{
		Nombre: "Marta Díaz", Email: "marta@unificador.com", Password: "secreto9", Rol: "empleado",
	}))
	assert.Equal(t, 1, srv.Hit("POST /usuarios"))
	assert.Len(t, v.Usuarios, 4)
	require.NotEmpty(t, notas.exitos)
	assert.Contains(t, notas.exitos[0], "Marta Díaz")
}

func TestCrearUsuarioEmailDuplicadoMuestraElDetalleDelBackend(t *testing.T) {
	_, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewGestionUsuarios(cliente, sesionDueno(), notas, &confSpy{})
	require.NoError(t, v.Cargar(context.Background()))

	err := v.Crear(context.Background(), UsuarioForm{
		Nombre: "Otro", Email: "admin@unificador.com", Password: "secreto9", Rol: "empleado",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsAPIStatus(err, 400))
	assert.Contains(t, notas.errores, "Error: El email ya está registrado")
}
