package view

import (
	"context"
	"errors"
	"fmt"

	"unificador/internal/api"
	"unificador/internal/apierror"
	"unificador/internal/model"
	"unificador/internal/session"
)

// UsuarioForm is the account-creation form.
type UsuarioForm struct {
	Nombre   string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Rol      string `validate:"required,oneof=empleado administrador dueño"`
}

// GestionUsuarios lists accounts and carries the owner-only create and delete
// actions. The self-deletion guard runs before any request.
type GestionUsuarios struct {
	api   *api.Client
	ses   session.Session
	notas Notifier
	conf  Confirmer

	estado   Estado
	Usuarios []model.Usuario
}

func NewGestionUsuarios(client *api.Client, ses session.Session, n Notifier, c Confirmer) *GestionUsuarios {
	return &GestionUsuarios{api: client, ses: ses, notas: n, conf: c}
}

func (v *GestionUsuarios) Estado() Estado { return v.estado }

func (v *GestionUsuarios) Cargar(ctx context.Context) error {
	v.estado = EstadoCargando
	usuarios, err := v.api.ListarUsuarios(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar usuarios")
		return err
	}
	v.Usuarios = usuarios
	v.estado = EstadoCargado
	return nil
}

// Crear registers a new account (owner only), then refetches the list.
func (v *GestionUsuarios) Crear(ctx context.Context, form UsuarioForm) error {
	if !v.ses.Rol().PuedeCrearUsuarios() {
		v.notas.Error("Solo el dueño puede crear usuarios")
		return apierror.ErrPermiso
	}
	if err := validarStruct(form); err != nil {
		var vErr *apierror.ValidationError
		if errors.As(err, &vErr) && vErr.Fields["Password"] != "" {
			v.notas.Error("La contraseña debe tener al menos 6 caracteres")
		} else {
			v.notas.Error("Completa todos los campos correctamente")
		}
		return err
	}

	creado, err := v.api.CrearUsuario(ctx, api.CrearUsuarioRequest{
		Nombre:   form.Nombre,
		Email:    form.Email,
		Password: form.Password,
		Rol:      form.Rol,
	})
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(fmt.Sprintf("Usuario %s creado exitosamente", creado.Nombre))
	return v.Cargar(ctx)
}

// Eliminar deactivates an account (owner only, never oneself), after a
// blocking confirmation, then refetches.
func (v *GestionUsuarios) Eliminar(ctx context.Context, usuarioID int) error {
	if !v.ses.Rol().PuedeEliminarUsuarios() {
		v.notas.Error("Solo el dueño puede eliminar usuarios")
		return apierror.ErrPermiso
	}
	if usuarioID == v.ses.Usuario.ID {
		v.notas.Error("No puedes eliminar tu propio usuario")
		return apierror.ErrPermiso
	}
	usuario := v.porID(usuarioID)
	if usuario == nil {
		v.notas.Error("Usuario no encontrado")
		return fmt.Errorf("usuarios: usuario %d no cargado", usuarioID)
	}
	if !v.conf.Confirmar(fmt.Sprintf("¿Estás seguro de eliminar al usuario %q? Esta acción no se puede deshacer.", usuario.Nombre)) {
		return nil
	}

	resp, err := v.api.EliminarUsuario(ctx, usuarioID, v.ses.Usuario.ID)
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(resp.Mensaje)
	return v.Cargar(ctx)
}

func (v *GestionUsuarios) porID(id int) *model.Usuario {
	for i := range v.Usuarios {
		if v.Usuarios[i].ID == id {
			return &v.Usuarios[i]
		}
	}
	return nil
}
