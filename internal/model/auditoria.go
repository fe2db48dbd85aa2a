package model

import (
	"strings"
	"time"
)

// Known accion codes written by the backend's audit trail.
const (
	AccionLogin             = "LOGIN"
	AccionCierreDiario      = "CIERRE_DIARIO"
	AccionRevertirProceso   = "REVERTIR_PROCESO"
	AccionCrearProducto     = "CREAR_PRODUCTO"
	AccionCrearUsuario      = "CREAR_USUARIO"
	AccionActualizarProduct = "ACTUALIZAR_PRODUCTO"
	AccionEliminarProducto  = "ELIMINAR_PRODUCTO"
	AccionEliminarUsuario   = "ELIMINAR_USUARIO"
	AccionAjustarStock      = "AJUSTAR_STOCK"
	AccionSolicitudMerma    = "SOLICITUD_MERMA"
	AccionAprobarMerma      = "APROBAR_MERMA"
	AccionRechazarMerma     = "RECHAZAR_MERMA"
)

// RegistroAuditoria is one row of the append-only audit log (GET /auditoria).
// The only mutation the system allows on it is the daily-closing reversal,
// which flips Revertido server-side.
type RegistroAuditoria struct {
	ID            int       `json:"id"`
	Fecha         time.Time `json:"fecha"`
	UsuarioID     int       `json:"usuario_id"`
	UsuarioNombre string    `json:"usuario_nombre"`
	UsuarioEmail  string    `json:"usuario_email"`
	Accion        string    `json:"accion"`
	TablaAfectada string    `json:"tabla_afectada"`
	Detalles      string    `json:"detalles"`
	Revertido     bool      `json:"revertido"`
}

// DescripcionAccion maps an accion code to the label shown in tables.
// Unrecognized codes render as-is.
func DescripcionAccion(accion string) string {
	switch {
	case strings.Contains(accion, AccionCierreDiario):
		return "Cierre Diario"
	case strings.Contains(accion, AccionCrearProducto):
		return "Creación de Producto"
	case strings.Contains(accion, AccionCrearUsuario):
		return "Creación de Usuario"
	case strings.Contains(accion, AccionActualizarProduct):
		return "Actualización de Producto"
	case strings.Contains(accion, AccionEliminarProducto):
		return "Eliminación de Producto"
	case strings.Contains(accion, AccionAjustarStock):
		return "Ajuste de Stock"
	case strings.Contains(accion, AccionLogin):
		return "Inicio de Sesión"
	default:
		return accion
	}
}
