package view

import (
	"context"

	"unificador/internal/api"
	"unificador/internal/apierror"
	"unificador/internal/model"
	"unificador/internal/session"
)

// ConfiguracionSistema edits the system settings: the flat map from the
// backend is reshaped into the nested form, edited, validated and flattened
// back on save.
type ConfiguracionSistema struct {
	api   *api.Client
	ses   session.Session
	notas Notifier

	estado Estado
	Config model.Configuracion
}

func NewConfiguracionSistema(client *api.Client, ses session.Session, n Notifier) *ConfiguracionSistema {
	return &ConfiguracionSistema{api: client, ses: ses, notas: n}
}

func (v *ConfiguracionSistema) Estado() Estado { return v.estado }

func (v *ConfiguracionSistema) Cargar(ctx context.Context) error {
	v.estado = EstadoCargando
	configs, err := v.api.ObtenerConfiguraciones(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar configuraciones")
		return err
	}
	v.Config = model.DesdeMapa(configs)
	v.estado = EstadoCargado
	return nil
}

// Guardar validates the edited settings and writes them back in a single
// multi-update request.
func (v *ConfiguracionSistema) Guardar(ctx context.Context) error {
	if !v.ses.Rol().PuedeEditarConfiguracion() {
		v.notas.Error("No tienes permisos para modificar la configuración")
		return apierror.ErrPermiso
	}
	if err := validarStruct(v.Config.Empresa); err != nil {
		v.notas.Error("Datos de empresa inválidos")
		return err
	}
	if err := validarStruct(v.Config.Inventario); err != nil {
		v.notas.Error("Umbrales de inventario inválidos")
		return err
	}
	if err := validarStruct(v.Config.Sistema); err != nil {
		v.notas.Error("Parámetros de sistema inválidos")
		return err
	}

	resp, err := v.api.ActualizarConfiguraciones(ctx, v.Config.AMapa())
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(resp.Mensaje)
	return v.Cargar(ctx)
}
