package view

import (
	"testing"
	"time"

	"unificador/internal/api"
	"unificador/internal/apitest"
	"unificador/internal/model"
	"unificador/internal/session"

	"github.com/shopspring/decimal"
)

// notasSpy records every notification a controller emits.
type notasSpy struct {
	exitos  []string
	errores []string
}

func (n *notasSpy) Exito(m string) { n.exitos = append(n.exitos, m) }
func (n *notasSpy) Error(m string) { n.errores = append(n.errores, m) }

// confSpy scripts the blocking decisions and records the questions asked.
type confSpy struct {
	aceptar     bool
	respuesta   string
	respuestaOK bool
	preguntas   []string
}

func (c *confSpy) Confirmar(p string) bool {
	c.preguntas = append(c.preguntas, p)
	return c.aceptar
}

func (c *confSpy) Pedir(etiqueta string) (string, bool) {
	c.preguntas = append(c.preguntas, etiqueta)
	return c.respuesta, c.respuestaOK
}

func precio(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// servidorSembrado starts the fake backend with the three roles and a small
// inventory, and returns a client pointed at it.
func servidorSembrado(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	srv.Usuarios = []model.Usuario{
		{ID: 1, Nombre: "Jesús Ortega", Email: "dueno@unificador.com", Rol: "dueño"},
		{ID: 2, Nombre: "Ana Ríos", Email: "admin@unificador.com", Rol: "administrador"},
		{ID: 3, Nombre: "Luis Vega", Email: "empleado@unificador.com", Rol: "empleado"},
	}
	srv.Credenciales["dueno@unificador.com"] = "secreto1"
	srv.Credenciales["admin@unificador.com"] = "secreto2"
	srv.Credenciales["empleado@unificador.com"] = "secreto3"

	srv.Productos = []model.Producto{
		{ID: 1, Codigo: "CEM-001", Nombre: "Cemento Gris 50kg", Categoria: "Construcción", StockActual: 120, PrecioCompra: precio("180.00"), PrecioVenta: precio("235.50")},
		{ID: 2, Codigo: "PIN-014", Nombre: "Pintura Blanca 4L", Categoria: "Pinturas", StockActual: 35, PrecioCompra: precio("210.00"), PrecioVenta: precio("289.90")},
		{ID: 3, Codigo: "TOR-220", Nombre: "Tornillo 1/4 x 2", Categoria: "Ferretería", StockActual: 8, PrecioCompra: precio("0.80"), PrecioVenta: precio("1.50")},
	}

	return srv, api.New(srv.URL(), 5*time.Second)
}

func sesionDe(id int, nombre, rol string) session.Session {
	return session.Session{
		Token:   "token_test",
		Usuario: model.Usuario{ID: id, Nombre: nombre, Email: nombre + "@unificador.com", Rol: rol},
	}
}

func sesionDueno() session.Session    { return sesionDe(1, "dueno", "dueño") }
func sesionAdmin() session.Session    { return sesionDe(2, "admin", "administrador") }
func sesionEmpleado() session.Session { return sesionDe(3, "empleado", "empleado") }
