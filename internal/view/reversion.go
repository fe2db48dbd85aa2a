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

// PuedeRevertir decides reversal eligibility purely from the record: not yet
// reversed, a daily-closing action, and neither a login nor a reversal itself.
func PuedeRevertir(r model.RegistroAuditoria) bool {
	if r.Revertido {
		return false
	}
	if strings.Contains(r.Accion, model.AccionLogin) || strings.Contains(r.Accion, "REVERTIR") {
		return false
	}
	return strings.Contains(r.Accion, model.AccionCierreDiario)
}

// RevertirProcesos is the owner-only reversal screen: the audit log with its
// user/accion filters plus the single mutating action.
type RevertirProcesos struct {
	api   *api.Client
	ses   session.Session
	notas Notifier
	conf  Confirmer

	estado    Estado
	Registros []model.RegistroAuditoria
	Filtro    FiltroAuditoria
}

func NewRevertirProcesos(client *api.Client, ses session.Session, n Notifier, c Confirmer) *RevertirProcesos {
	return &RevertirProcesos{api: client, ses: ses, notas: n, conf: c}
}

func (v *RevertirProcesos) Estado() Estado { return v.estado }

func (v *RevertirProcesos) Cargar(ctx context.Context) error {
	v.estado = EstadoCargando
	registros, err := v.api.ListarAuditoria(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error de conexión al cargar auditoría")
		return err
	}
	v.Registros = registros
	v.estado = EstadoCargado
	return nil
}

// Filtrados applies the user and accion predicates.
func (v *RevertirProcesos) Filtrados() []model.RegistroAuditoria {
	var out []model.RegistroAuditoria
	for _, r := range v.Registros {
		if v.Filtro.Coincide(r) {
			out = append(out, r)
		}
	}
	return out
}

// Revertir undoes a daily closing after confirmation. Eligibility is checked
// client-side first so ineligible records never produce a request.
func (v *RevertirProcesos) Revertir(ctx context.Context, procesoID int) error {
	if !v.ses.Rol().PuedeRevertirCierres() {
		v.notas.Error("Solo el dueño puede revertir procesos")
		return apierror.ErrPermiso
	}
	registro := v.porID(procesoID)
	if registro == nil {
		v.notas.Error("Proceso no encontrado")
		return fmt.Errorf("reversion: registro %d no cargado", procesoID)
	}
	if !PuedeRevertir(*registro) {
		v.notas.Error("Este proceso no se puede revertir")
		return fmt.Errorf("reversion: registro %d no es reversible", procesoID)
	}
	if !v.conf.Confirmar(fmt.Sprintf("¿Estás seguro de que quieres revertir este proceso?\n\nAcción: %s\n\nEsta acción no se puede deshacer.", registro.Accion)) {
		return nil
	}

	resp, err := v.api.RevertirProceso(ctx, procesoID)
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(resp.Mensaje)
	return v.Cargar(ctx)
}

func (v *RevertirProcesos) porID(id int) *model.RegistroAuditoria {
	for i := range v.Registros {
		if v.Registros[i].ID == id {
			return &v.Registros[i]
		}
	}
	return nil
}
