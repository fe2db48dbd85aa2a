package view

import (
	"context"
	"fmt"

	"unificador/internal/api"
	"unificador/internal/apierror"
	"unificador/internal/model"
	"unificador/internal/session"
)

// MermaForm is the shrinkage submission form. The cantidad bound against the
// product's known stock is enforced separately, before any network call.
type MermaForm struct {
	ProductoID    int    `validate:"required,gt=0"`
	Cantidad      int    `validate:"required,gt=0"`
	Motivo        string `validate:"required"`
	Observaciones string
}

// AjustesStock is the stock-adjustment screen: product picker plus the merma
// form. The response's estado decides which outcome message the user sees;
// displayed stock never changes until the follow-up refetch.
type AjustesStock struct {
	api   *api.Client
	ses   session.Session
	notas Notifier

	estado    Estado
	Productos []model.Producto
}

func NewAjustesStock(client *api.Client, ses session.Session, n Notifier) *AjustesStock {
	return &AjustesStock{api: client, ses: ses, notas: n}
}

func (v *AjustesStock) Estado() Estado { return v.estado }

// Cargar fetches the product list the picker is built from.
func (v *AjustesStock) Cargar(ctx context.Context) error {
	v.estado = EstadoCargando
	productos, err := v.api.ListarInventario(ctx)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error("Error al cargar productos")
		return err
	}
	v.Productos = productos
	v.estado = EstadoCargado
	return nil
}

// ProductoPorID returns the currently known snapshot of a product.
func (v *AjustesStock) ProductoPorID(id int) *model.Producto {
	for i := range v.Productos {
		if v.Productos[i].ID == id {
			return &v.Productos[i]
		}
	}
	return nil
}

// StockDespues previews the stock a submission would leave. Negative values
// disable the submit action.
func (v *AjustesStock) StockDespues(productoID, cantidad int) int {
	p := v.ProductoPorID(productoID)
	if p == nil {
		return 0
	}
	return p.StockActual - cantidad
}

// MotivoValido reports whether motivo is one of the enumerated reasons.
func MotivoValido(motivo string) bool {
	for _, m := range model.MotivosMerma {
		if m == motivo {
			return true
		}
	}
	return false
}

// Enviar validates the form, rejects quantities above current stock without
// touching the network, and submits the request. The server decides approval;
// the client only renders the two outcomes.
func (v *AjustesStock) Enviar(ctx context.Context, form MermaForm) error {
	if err := validarStruct(form); err != nil {
		v.notas.Error("Completa todos los campos obligatorios")
		return err
	}
	if !MotivoValido(form.Motivo) {
		v.notas.Error("Motivo de merma no válido")
		return &apierror.ValidationError{Fields: map[string]string{"Motivo": "oneof"}}
	}
	producto := v.ProductoPorID(form.ProductoID)
	if producto == nil {
		v.notas.Error("Producto no encontrado")
		return fmt.Errorf("ajustes: producto %d no cargado", form.ProductoID)
	}
	if form.Cantidad > producto.StockActual {
		v.notas.Error("No hay suficiente stock")
		return &apierror.ValidationError{Fields: map[string]string{"Cantidad": "max"}}
	}

	resp, err := v.api.RegistrarMerma(ctx, api.RegistrarMermaRequest{
		ProductoID:    form.ProductoID,
		Cantidad:      form.Cantidad,
		Motivo:        form.Motivo,
		Observaciones: form.Observaciones,
		UsuarioID:     v.ses.Usuario.ID,
	})
	if err != nil {
		v.notas.Error(mensajeDe(err))
		return err
	}

	// El backend redacta el mensaje de ambos desenlaces; el estado solo decide
	// el prefijo del caso aplicado.
	if resp.Estado == model.EstadoAprobada {
		v.notas.Exito("Merma registrada y aplicada: " + resp.Mensaje)
	} else {
		v.notas.Exito(resp.Mensaje)
	}
	// Refetch so the picker reflects server state; never decrement locally.
	return v.Cargar(ctx)
}
