package view

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"unificador/internal/api"
	"unificador/internal/apierror"
	"unificador/internal/model"
	"unificador/internal/session"
)

// BandaStock classifies a product by its stock level. Bands partition the
// whole range: every stock value falls in exactly one.
type BandaStock string

const (
	BandaTodos   BandaStock = "todos"
	BandaCritico BandaStock = "critico"
	BandaBajo    BandaStock = "bajo"
	BandaMedio   BandaStock = "medio"
	BandaAlto    BandaStock = "alto"
)

// topeMedio is the fixed upper bound of the "medio" band.
const topeMedio = 100

// BandaDe returns the band of a stock level given the configured thresholds:
// critico ≤ limiteCritico < bajo < limiteBajo ≤ medio < 100 ≤ alto.
func BandaDe(stock, limiteBajo, limiteCritico int) BandaStock {
	switch {
	case stock <= limiteCritico:
		return BandaCritico
	case stock < limiteBajo:
		return BandaBajo
	case stock < topeMedio:
		return BandaMedio
	default:
		return BandaAlto
	}
}

// ConsultaInventario is the inventory query screen: the full product list plus
// three AND-combined client-side filters and the owner-only stock mutations.
type ConsultaInventario struct {
	api   *api.Client
	ses   session.Session
	notas Notifier
	conf  Confirmer

	estado    Estado
	Productos []model.Producto
	Config    model.Configuracion

	FiltroTexto     string
	FiltroBanda     BandaStock
	FiltroCategoria string
}

func NewConsultaInventario(client *api.Client, ses session.Session, n Notifier, c Confirmer) *ConsultaInventario {
	return &ConsultaInventario{api: client, ses: ses, notas: n, conf: c, FiltroBanda: BandaTodos}
}

func (v *ConsultaInventario) Estado() Estado { return v.estado }

// Cargar fetches products and configuration in parallel, like the original's
// paired requests on mount.
func (v *ConsultaInventario) Cargar(ctx context.Context) error {
	v.estado = EstadoCargando

	var (
		wg      sync.WaitGroup
		errProd error
		errCfg  error
		configs map[string]string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		v.Productos, errProd = v.api.ListarInventario(ctx)
	}()
	go func() {
		defer wg.Done()
		configs, errCfg = v.api.ObtenerConfiguraciones(ctx)
	}()
	wg.Wait()

	if errProd != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar el inventario")
		return errProd
	}
	if errCfg != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar las configuraciones")
		return errCfg
	}
	v.Config = model.DesdeMapa(configs)
	v.estado = EstadoCargado
	return nil
}

// LimpiarFiltros resets the three predicates.
func (v *ConsultaInventario) LimpiarFiltros() {
	v.FiltroTexto = ""
	v.FiltroBanda = BandaTodos
	v.FiltroCategoria = ""
}

// Filtrados applies the free-text, band and category predicates (logical AND)
// over the fetched list.
func (v *ConsultaInventario) Filtrados() []model.Producto {
	texto := strings.ToLower(v.FiltroTexto)
	limiteBajo := v.Config.Inventario.AlertaStockBajo
	limiteCritico := v.Config.Inventario.AlertaStockCritico

	var out []model.Producto
	for _, p := range v.Productos {
		if texto != "" &&
			!strings.Contains(strings.ToLower(p.Nombre), texto) &&
			!strings.Contains(strings.ToLower(p.Codigo), texto) &&
			!strings.Contains(strings.ToLower(p.Categoria), texto) {
			continue
		}
		if v.FiltroBanda != BandaTodos && v.FiltroBanda != "" &&
			BandaDe(p.StockActual, limiteBajo, limiteCritico) != v.FiltroBanda {
			continue
		}
		if v.FiltroCategoria != "" && p.Categoria != v.FiltroCategoria {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categorias lists the distinct categories present, sorted, for the filter.
func (v *ConsultaInventario) Categorias() []string {
	vistas := make(map[string]struct{})
	var out []string
	for _, p := range v.Productos {
		if p.Categoria == "" {
			continue
		}
		if _, ok := vistas[p.Categoria]; !ok {
			vistas[p.Categoria] = struct{}{}
			out = append(out, p.Categoria)
		}
	}
	sort.Strings(out)
	return out
}

// Resumen returns the footer strip: product count, total stock units and
// distinct category count.
func (v *ConsultaInventario) Resumen() (productos, unidades, categorias int) {
	for _, p := range v.Productos {
		unidades += p.StockActual
	}
	return len(v.Productos), unidades, len(v.Categorias())
}

// ReducirStock removes cantidad units from a product (owner only). The bound
// against current stock is checked before any request.
func (v *ConsultaInventario) ReducirStock(ctx context.Context, productoID, cantidad int) error {
	if !v.ses.Rol().PuedeEliminarProductos() {
		v.notas.Error("Solo el dueño puede eliminar productos")
		return apierror.ErrPermiso
	}
	producto := v.productoPorID(productoID)
	if producto == nil {
		v.notas.Error("Producto no encontrado")
		return fmt.Errorf("inventario: producto %d no cargado", productoID)
	}
	if cantidad < 1 {
		v.notas.Error("La cantidad debe ser al menos 1")
		return &apierror.ValidationError{Fields: map[string]string{"cantidad": "min"}}
	}
	if cantidad > producto.StockActual {
		v.notas.Error(fmt.Sprintf("No puedes eliminar más de %d unidades", producto.StockActual))
		return &apierror.ValidationError{Fields: map[string]string{"cantidad": "max"}}
	}

	resp, err := v.api.ReducirStock(ctx, productoID, v.ses.Usuario.ID, cantidad)
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(resp.Mensaje)
	return v.Cargar(ctx)
}

// EliminarProducto deletes a product outright (owner only), after a blocking
// confirmation.
func (v *ConsultaInventario) EliminarProducto(ctx context.Context, productoID int) error {
	if !v.ses.Rol().PuedeEliminarProductos() {
		v.notas.Error("Solo el dueño puede eliminar productos")
		return apierror.ErrPermiso
	}
	producto := v.productoPorID(productoID)
	if producto == nil {
		v.notas.Error("Producto no encontrado")
		return fmt.Errorf("inventario: producto %d no cargado", productoID)
	}
	if !v.conf.Confirmar(fmt.Sprintf("¿Estás seguro de eliminar completamente %q? Esta acción no se puede deshacer.", producto.Nombre)) {
		return nil
	}

	resp, err := v.api.EliminarProducto(ctx, productoID, v.ses.Usuario.ID)
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}
	v.notas.Exito(resp.Mensaje)
	return v.Cargar(ctx)
}

func (v *ConsultaInventario) productoPorID(id int) *model.Producto {
	for i := range v.Productos {
		if v.Productos[i].ID == id {
			return &v.Productos[i]
		}
	}
	return nil
}
