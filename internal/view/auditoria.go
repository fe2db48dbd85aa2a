package view

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"unificador/internal/api"
	"unificador/internal/model"
	"unificador/internal/session"
)

// FiltroAuditoria are the client-side predicates over the fetched audit log.
// Desde is inclusive from the start of its day; Hasta is inclusive through
// the end of its day.
type FiltroAuditoria struct {
	Usuario string
	Accion  string
	Desde   *time.Time
	Hasta   *time.Time
}

// Coincide reports whether a record passes every set predicate.
func (f FiltroAuditoria) Coincide(r model.RegistroAuditoria) bool {
	if f.Usuario != "" {
		u := strings.ToLower(f.Usuario)
		if !strings.Contains(strings.ToLower(r.UsuarioNombre), u) &&
			!strings.Contains(strings.ToLower(r.UsuarioEmail), u) &&
			strconv.Itoa(r.UsuarioID) != f.Usuario {
			return false
		}
	}
	if f.Accion != "" && !strings.Contains(strings.ToLower(r.Accion), strings.ToLower(f.Accion)) {
		return false
	}
	if f.Desde != nil && r.Fecha.Before(inicioDelDia(*f.Desde)) {
		return false
	}
	if f.Hasta != nil && r.Fecha.After(finDelDia(*f.Hasta)) {
		return false
	}
	return true
}

func inicioDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func finDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Auditoria is the read-only audit screen with its three filters.
type Auditoria struct {
	api   *api.Client
	ses   session.Session
	notas Notifier

	estado    Estado
	Registros []model.RegistroAuditoria
	Filtro    FiltroAuditoria
}

func NewAuditoria(client *api.Client, ses session.Session, n Notifier) *Auditoria {
	return &Auditoria{api: client, ses: ses, notas: n}
}

func (v *Auditoria) Estado() Estado { return v.estado }

// Cargar fetches the log (most recent first, server-capped).
func (v *Auditoria) Cargar(ctx context.Context) error {
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

// Filtrados applies the current filter over the fetched records.
func (v *Auditoria) Filtrados() []model.RegistroAuditoria {
	var out []model.RegistroAuditoria
	for _, r := range v.Registros {
		if v.Filtro.Coincide(r) {
			out = append(out, r)
		}
	}
	return out
}

// AccionesUnicas lists the distinct accion codes, sorted, for the dropdown.
func (v *Auditoria) AccionesUnicas() []string {
	vistas := make(map[string]struct{})
	var out []string
	for _, r := range v.Registros {
		if _, ok := vistas[r.Accion]; !ok {
			vistas[r.Accion] = struct{}{}
			out = append(out, r.Accion)
		}
	}
	sort.Strings(out)
	return out
}
