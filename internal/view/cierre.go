package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"unificador/internal/api"
	"unificador/internal/apierror"
	"unificador/internal/model"
	"unificador/internal/session"

	"github.com/rs/zerolog/log"
)

// lineasVistaPrevia is how many raw lines of the CSV the preview shows.
const lineasVistaPrevia = 6

// CierreDiario drives the two-phase daily-closing upload: stage the CSV,
// then commit the parsed rows against the current user. The two requests are
// not atomic; a commit failure leaves the staged upload orphaned server-side
// (logged here, garbage-collected there).
type CierreDiario struct {
	api   *api.Client
	ses   session.Session
	notas Notifier

	estado        Estado
	NombreArchivo string
	contenido     []byte
	VistaPrevia   string

	Resultado *model.CierreResultado
}

func NewCierreDiario(client *api.Client, ses session.Session, n Notifier) *CierreDiario {
	return &CierreDiario{api: client, ses: ses, notas: n}
}

func (v *CierreDiario) Estado() Estado { return v.estado }

// SeleccionarArchivo reads the chosen file, validates its extension and
// builds the raw-text preview. Nothing touches the network yet.
func (v *CierreDiario) SeleccionarArchivo(ruta string) error {
	if !strings.EqualFold(filepath.Ext(ruta), ".csv") {
		v.notas.Error("Por favor selecciona un archivo CSV válido")
		return &apierror.ValidationError{Fields: map[string]string{"archivo": "csv"}}
	}
	contenido, err := os.ReadFile(ruta)
	if err != nil {
		v.notas.Error("No se pudo leer el archivo")
		return fmt.Errorf("cierre: leer %s: %w", ruta, err)
	}
	v.NombreArchivo = filepath.Base(ruta)
	v.contenido = contenido
	v.VistaPrevia = vistaPrevia(contenido)
	return nil
}

func vistaPrevia(contenido []byte) string {
	lineas := strings.Split(string(contenido), "\n")
	if len(lineas) > lineasVistaPrevia {
		lineas = lineas[:lineasVistaPrevia]
	}
	return strings.Join(lineas, "\n")
}

// SubirYProcesar runs both phases sequentially: stage the file, then commit
// the rows the staging endpoint returned. A phase-2 failure cannot be
// compensated client-side; the orphaned staging data is logged by name so it
// can be chased server-side.
func (v *CierreDiario) SubirYProcesar(ctx context.Context) error {
	if v.contenido == nil {
		v.notas.Error("Por favor selecciona un archivo CSV primero")
		return &apierror.ValidationError{Fields: map[string]string{"archivo": "required"}}
	}
	v.estado = EstadoCargando

	escenificado, err := v.api.SubirCSVCierre(ctx, v.NombreArchivo, v.contenido, v.ses.Usuario.ID)
	if err != nil {
		v.estado = EstadoError
		v.notas.Error(mensajeDe(err))
		return err
	}

	resultado, err := v.api.ProcesarCierre(ctx, api.ProcesarCierreRequest{
		Productos:     escenificado.Productos,
		NombreArchivo: escenificado.NombreArchivo,
		UsuarioID:     v.ses.Usuario.ID,
	})
	if err != nil {
		log.Warn().Str("archivo", escenificado.NombreArchivo).
			Int("productos", len(escenificado.Productos)).
			Msg("cierre: carga escenificada quedó huérfana tras fallo del commit")
		v.estado = EstadoError
		v.notas.Error(mensajeDe(err))
		return err
	}

	v.Resultado = resultado
	v.NombreArchivo = ""
	v.contenido = nil
	v.VistaPrevia = ""
	v.estado = EstadoCargado
	v.notas.Exito(resultado.Mensaje)
	return nil
}
