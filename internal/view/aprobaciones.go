package view

import (
	"context"
	"fmt"
	"strings"

	"unificador/internal/api"
	"unificador/internal/apierror"
	"unificador/internal/model"
	"unificador/internal/session"
)

// AprobarMermas is the owner's approval queue. Both decisions go through a
// blocking confirmation; rejection additionally demands a written reason.
type AprobarMermas struct {
	api   *api.Client
	ses   session.Session
	notas Notifier
	conf  Confirmer

	estado     Estado
	Pendientes []model.MermaSolicitud
}

func NewAprobarMermas(client *api.Client, ses session.Session, n Notifier, c Confirmer) *AprobarMermas {
	return &AprobarMermas{api: client, ses: ses, notas: n, conf: c}
}

func (v *AprobarMermas) Estado() Estado { return v.estado }

// Cargar fetches the pending queue.
func (v *AprobarMermas) Cargar(ctx context.Context) error {
	v.estado = EstadoCargando
	pendientes, err := v.api.ListarMermasPendientes(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar mermas pendientes")
		return err
	}
	v.Pendientes = pendientes
	v.estado = EstadoCargado
	return nil
}

// Aprobar applies a pending merma after confirmation, then refetches.
func (v *AprobarMermas) Aprobar(ctx context.Context, mermaID int) error {
	if !v.ses.Rol().PuedeAprobarMermas() {
		v.notas.Error("Solo el dueño puede aprobar mermas")
		return apierror.ErrPermiso
	}
	merma := v.porID(mermaID)
	if merma == nil {
		v.notas.Error("Merma no encontrada")
		return fmt.Errorf("aprobaciones: merma %d no cargada", mermaID)
	}
	if !v.conf.Confirmar(fmt.Sprintf("¿Aprobar la merma de %d unidades de %q?", merma.Cantidad, merma.ProductoNombre)) {
		return nil
	}

	resp, err := v.api.AprobarMerma(ctx, mermaID, v.ses.Usuario.ID)
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(resp.Mensaje)
	return v.Cargar(ctx)
}

// Rechazar declines a pending merma. The reason is collected through the
// Confirmer and must be non-blank; the request is never sent without one.
func (v *AprobarMermas) Rechazar(ctx context.Context, mermaID int) error {
	if !v.ses.Rol().PuedeAprobarMermas() {
		v.notas.Error("Solo el dueño puede rechazar mermas")
		return apierror.ErrPermiso
	}
	merma := v.porID(mermaID)
	if merma == nil {
		v.notas.Error("Merma no encontrada")
		return fmt.Errorf("aprobaciones: merma %d no cargada", mermaID)
	}
	if !v.conf.Confirmar(fmt.Sprintf("¿Rechazar la merma de %d unidades de %q?", merma.Cantidad, merma.ProductoNombre)) {
		return nil
	}
	motivo, ok := v.conf.Pedir("Motivo del rechazo")
	if !ok || strings.TrimSpace(motivo) == "" {
		v.notas.Error("Debes indicar un motivo de rechazo")
		return &apierror.ValidationError{Fields: map[string]string{"motivo_rechazo": "required"}}
	}

	resp, err := v.api.RechazarMerma(ctx, mermaID, v.ses.Usuario.ID, motivo)
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(resp.Mensaje)
	return v.Cargar(ctx)
}

func (v *AprobarMermas) porID(id int) *model.MermaSolicitud {
	for i := range v.Pendientes {
		if v.Pendientes[i].ID == id {
			return &v.Pendientes[i]
		}
	}
	return nil
}
