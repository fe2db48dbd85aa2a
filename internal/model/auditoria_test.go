package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescripcionAccion(t *testing.T) {
	assert.Equal(t, "Cierre Diario", DescripcionAccion(AccionCierreDiario))
	assert.Equal(t, "Inicio de Sesión", DescripcionAccion(AccionLogin))
	assert.Equal(t, "Ajuste de Stock", DescripcionAccion(AccionAjustarStock))
	assert.Equal(t, "Eliminación de Producto", DescripcionAccion(AccionEliminarProducto))

	// Los códigos desconocidos se muestran tal cual.
	assert.Equal(t, "MIGRACION_MANUAL", DescripcionAccion("MIGRACION_MANUAL"))
}
