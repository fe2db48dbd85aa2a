package model

import "time"

// Merma request states as stored server-side.
const (
	EstadoPendiente = "pendiente"
	EstadoAprobada  = "aprobada"
	EstadoRechazada = "rechazada"
)

// MotivosMerma are the enumerated reasons accepted by the shrinkage form.
var MotivosMerma = []string{
	"Merma Normal",
	"Producto Dañado",
	"Pérdida",
	"No Cumple Calidad",
	"Vencimiento",
	"Otros",
}

// MermaSolicitud is a shrinkage request as listed by GET /mermas/pendientes.
// The backend joins the product and requesting user onto each row.
type MermaSolicitud struct {
	ID                     int       `json:"id"`
	ProductoID             int       `json:"producto_id"`
	ProductoCodigo         string    `json:"producto_codigo"`
	ProductoNombre         string    `json:"producto_nombre"`
	ProductoStock          int       `json:"producto_stock"`
	Cantidad               int       `json:"cantidad"`
	Motivo                 string    `json:"motivo"`
	Observaciones          string    `json:"observaciones"`
	Estado                 string    `json:"estado"`
	UsuarioSolicitudID     int       `json:"usuario_solicitud_id"`
	UsuarioSolicitudNombre string    `json:"usuario_solicitud_nombre"`
	UsuarioSolicitudEmail  string    `json:"usuario_solicitud_email"`
	FechaSolicitud         time.Time `json:"fecha_solicitud"`
}
