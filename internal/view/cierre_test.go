package view

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unificador/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvCierre = `codigo,nombre,categoria,cantidad,precio_compra,precio_venta
CEM-001,Cemento Gris 50kg,Construcción,40,180.00,235.50
PIN-014,Pintura Blanca 4L,Pinturas,12,210.00,289.90
LAD-002,Ladrillo Rojo,Construcción,500,2.10,3.80
ARE-005,Arena Fina m3,Construcción,6,350.00,480.00
GRA-009,Grava m3,Construcción,4,380.00,520.00
CAL-003,Cal Hidratada 25kg,Construcción,30,95.00,140.00
YES-007,Yeso 40kg,Construcción,18,110.00,168.00
`

func escribirCSV(t *testing.T, nombre, contenido string) string {
	t.Helper()
	ruta := filepath.Join(t.TempDir(), nombre)
	require.NoError(t, os.WriteFile(ruta, []byte(contenido), 0o600))
	return ruta
}

func TestSeleccionarArchivoRechazaExtensionesNoCSV(t *testing.T) {
	_, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewCierreDiario(cliente, sesionEmpleado(), notas)

	ruta := escribirCSV(t, "ventas.xlsx", "no importa")
	err := v.SeleccionarArchivo(ruta)
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, notas.errores, "Por favor selecciona un archivo CSV válido")
	assert.Empty(t, v.NombreArchivo)
}

func TestSeleccionarArchivoVistaPreviaSeisLineas(t *testing.T) {
	_, cliente := servidorSembrado(t)
	v := NewCierreDiario(cliente, sesionEmpleado(), &notasSpy{})

	ruta := escribirCSV(t, "ventas.csv", csvCierre)
	require.NoError(t, v.SeleccionarArchivo(ruta))

	assert.Equal(t, "ventas.csv", v.NombreArchivo)
	lineas := strings.Split(v.VistaPrevia, "\n")
	assert.Len(t, lineas, 6)
	assert.True(t, strings.HasPrefix(lineas[0], "codigo,"))
}

func TestSubirYProcesarSinArchivoSeleccionado(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	v := NewCierreDiario(cliente, sesionEmpleado(), &notasSpy{})

	err := v.SubirYProcesar(context.Background())
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, srv.Hit("POST /cierres-diarios/subir-csv"))
}

func TestSubirYProcesarDosFases(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	v := NewCierreDiario(cliente, sesionEmpleado(), notas)

	ruta := escribirCSV(t, "cierre_20260827.csv", csvCierre)
	require.NoError(t, v.SeleccionarArchivo(ruta))
	require.NoError(t, v.SubirYProcesar(context.Background()))

	assert.Equal(t, 1, srv.Hit("POST /cierres-diarios/subir-csv"))
	assert.Equal(t, 1, srv.Hit("POST /cierres-diarios/procesar"))
	require.NotNil(t, v.Resultado)
	assert.Equal(t, 7, v.Resultado.TotalProcesado)
	assert.Equal(t, EstadoCargado, v.Estado())

	// Los códigos existentes suman stock; los nuevos se crean.
	assert.Equal(t, 160, srv.Productos[0].StockActual) // CEM-001: 120 + 40
	assert.Equal(t, 47, srv.Productos[1].StockActual)  // PIN-014: 35 + 12
	assert.Len(t, srv.Productos, 8)

	// El formulario queda listo para el siguiente archivo.
	assert.Empty(t, v.NombreArchivo)
	assert.Empty(t, v.VistaPrevia)
}

func TestSubirYProcesarFalloEnLaSegundaFase(t *testing.T) {
	srv, cliente := servidorSembrado(t)
	notas := &notasSpy{}
	// El usuario 99 no existe en el backend: la fase de staging pasa pero el
	// commit responde 400, dejando la carga escenificada huérfana.
	v := NewCierreDiario(cliente, sesionDe(99, "fantasma", "empleado"), notas)

	ruta := escribirCSV(t, "cierre.csv", csvCierre)
	require.NoError(t, v.SeleccionarArchivo(ruta))

	err := v.SubirYProcesar(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsAPIStatus(err, 400))
	assert.Equal(t, 1, srv.Hit("POST /cierres-diarios/subir-csv"))
	assert.Equal(t, 1, srv.Hit("POST /cierres-diarios/procesar"))
	assert.Equal(t, EstadoError, v.Estado())

	// El inventario no cambió y el archivo sigue seleccionado para reintentar.
	assert.Equal(t, 120, srv.Productos[0].StockActual)
	assert.Equal(t, "cierre.csv", v.NombreArchivo)
}
