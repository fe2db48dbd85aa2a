// Package view holds the role-gated view controllers. Each controller owns
// the transient state of one screen: it fetches its data on load, filters and
// aggregates in memory, and re-fetches in full after every mutation instead of
// patching local state. Presentation is decoupled through the Notifier and
// Confirmer interfaces so business flow can be tested without a terminal.
package view

import (
	"errors"
	"reflect"

	"unificador/internal/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Estado is the lifecycle every controller shares:
// inactivo → cargando → {cargado | error}. Mutations pass back through
// cargando via a full refetch.
type Estado int

const (
	EstadoInactivo Estado = iota
	EstadoCargando
	EstadoCargado
	EstadoError
)

func (e Estado) String() string {
	switch e {
	case EstadoCargando:
		return "cargando"
	case EstadoCargado:
		return "cargado"
	case EstadoError:
		return "error"
	default:
		return "inactivo"
	}
}

// Notifier receives user-facing outcome messages. The terminal front end
// prints them; tests record them.
type Notifier interface {
	Exito(mensaje string)
	Error(mensaje string)
}

// Confirmer collects blocking user decisions: yes/no confirmations before
// destructive actions and free-text input (e.g. a rejection reason).
type Confirmer interface {
	Confirmar(pregunta string) bool
	Pedir(etiqueta string) (valor string, ok bool)
}

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so validator tags like
	// min=0, gt=0, required work without panicking.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// errSinDatos marks actions attempted before the view finished loading.
var errSinDatos = errors.New("view: sin datos cargados")

// mensajeDe turns a client error into the message shown to the user: the
// backend's detail text when there is one, a generic connection notice
// otherwise.
func mensajeDe(err error) string {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return "Error: " + apiErr.Detail
	}
	var connErr *apierror.ConnError
	if errors.As(err, &connErr) {
		return "Error de conexión"
	}
	return err.Error()
}

// validarStruct runs go-playground/validator tags over a form struct and
// converts failures into the client's ValidationError.
func validarStruct(req any) error {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		return &apierror.ValidationError{Fields: fields}
	}
	return nil
}
