package view

import (
	"context"
	"fmt"
	"sync"

	"unificador/internal/api"
	"unificador/internal/model"
	"unificador/internal/rbac"
	"unificador/internal/session"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Seccion identifies one feature view inside a dashboard.
type Seccion string

const (
	SeccionInicio         Seccion = "inicio"
	SeccionCierreDiario   Seccion = "cierre-diario"
	SeccionConsultaInv    Seccion = "consulta-inventario"
	SeccionAjustesStock   Seccion = "ajustes-stock"
	SeccionReportes       Seccion = "reportes"
	SeccionGestionUsers   Seccion = "gestion-usuarios"
	SeccionAuditoria      Seccion = "auditoria"
	SeccionReportesAvanz  Seccion = "reportes-avanzados"
	SeccionConfiguracion  Seccion = "configuracion-sistema"
	SeccionAprobarMermas  Seccion = "aprobar-mermas"
	SeccionRevertirProcs  Seccion = "revertir-procesos"
)

// MenuPara returns the fixed feature menu of a role's dashboard, in the order
// it is presented.
func MenuPara(rol rbac.Role) []Seccion {
	base := []Seccion{SeccionCierreDiario, SeccionConsultaInv, SeccionAjustesStock, SeccionReportes}
	switch rol {
	case rbac.Administrador:
		return append(base,
			SeccionGestionUsers, SeccionAuditoria, SeccionReportesAvanz, SeccionConfiguracion)
	case rbac.Dueno:
		return append(base,
			SeccionGestionUsers, SeccionAuditoria, SeccionReportesAvanz, SeccionConfiguracion,
			SeccionAprobarMermas, SeccionRevertirProcs)
	default:
		return base
	}
}

// Metricas are the aggregates shown on every dashboard's inicio screen,
// recomputed from scratch on each visit.
type Metricas struct {
	TotalProductos  int
	ValorInventario decimal.Decimal
	StockBajo       int
	TotalUsuarios   int
}

// ValorInventario sums precio_venta × stock_actual over all products,
// treating missing values as zero. An empty list yields zero.
func ValorInventario(productos []model.Producto) decimal.Decimal {
	total := decimal.Zero
	for _, p := range productos {
		total = total.Add(p.PrecioVenta.Mul(decimal.NewFromInt(int64(p.StockActual))))
	}
	return total
}

// ContarStockBajo counts products strictly under the low-stock threshold.
func ContarStockBajo(productos []model.Producto, limite int) int {
	n := 0
	for _, p := range productos {
		if p.StockActual < limite {
			n++
		}
	}
	return n
}

// Dashboard is the per-role view-state machine: inicio (metrics + menu) or
// exactly one feature section, with a single back transition to inicio.
type Dashboard struct {
	api *api.Client
	ses session.Session

	menu    []Seccion
	seccion Seccion

	estado   Estado
	Metricas Metricas
}

// NewDashboard selects the dashboard variant from the session's role.
func NewDashboard(client *api.Client, ses session.Session) *Dashboard {
	return &Dashboard{
		api:     client,
		ses:     ses,
		menu:    MenuPara(ses.Rol()),
		seccion: SeccionInicio,
	}
}

func (d *Dashboard) Estado() Estado   { return d.estado }
func (d *Dashboard) Seccion() Seccion { return d.seccion }
func (d *Dashboard) Menu() []Seccion  { return d.menu }

// Ir navigates to a feature section; only sections in this role's menu are
// reachable.
func (d *Dashboard) Ir(s Seccion) error {
	for _, permitida := range d.menu {
		if s == permitida {
			d.seccion = s
			return nil
		}
	}
	return fmt.Errorf("dashboard: seccion %q no disponible para rol %s", s, d.ses.Rol())
}

// Volver returns to inicio from any feature section.
func (d *Dashboard) Volver() { d.seccion = SeccionInicio }

// CargarMetricas fans out the three collection fetches concurrently and
// applies a single atomic update when all succeed. Any partial failure
// degrades to zero metrics, indistinguishable from empty data; the gap is
// logged but intentionally not surfaced.
func (d *Dashboard) CargarMetricas(ctx context.Context) {
	d.estado = EstadoCargando

	var (
		wg        sync.WaitGroup
		productos []model.Producto
		usuarios  []model.Usuario
		configs   map[string]string
		errProd   error
		errUsr    error
		errCfg    error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		productos, errProd = d.api.ListarInventario(ctx)
	}()
	go func() {
		defer wg.Done()
		usuarios, errUsr = d.api.ListarUsuarios(ctx)
	}()
	go func() {
		defer wg.Done()
		configs, errCfg = d.api.ObtenerConfiguraciones(ctx)
	}()
	wg.Wait()

	if errProd != nil || errUsr != nil || errCfg != nil {
		log.Warn().AnErr("inventario", errProd).AnErr("usuarios", errUsr).AnErr("configuraciones", errCfg).
			Msg("dashboard: metricas degradadas por carga parcial")
		d.Metricas = Metricas{ValorInventario: decimal.Zero}
		d.estado = EstadoCargado
		return
	}

	cfg := model.DesdeMapa(configs)
	d.Metricas = Metricas{
		TotalProductos:  len(productos),
		ValorInventario: ValorInventario(productos),
		StockBajo:       ContarStockBajo(productos, cfg.Inventario.AlertaStockBajo),
		TotalUsuarios:   len(usuarios),
	}
	d.estado = EstadoCargado
}
