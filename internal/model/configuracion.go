package model

import "strconv"

// Defaults applied when a configuration key is missing or unparseable.
// alerta_stock_bajo/critico are the thresholds every stock-band computation
// in the client falls back to.
const (
	DefaultAlertaStockBajo    = 50
	DefaultAlertaStockCritico = 10
	DefaultDiasBackup         = 7
	DefaultHorarioApertura    = "08:00"
	DefaultHorarioCierre      = "18:00"
	DefaultTiempoSesion       = 60
)

// Configuracion is the nested shape the client works with. The backend stores
// and serves a flat clave→valor map; DesdeMapa / AMapa convert between the two.
type Configuracion struct {
	Empresa    ConfigEmpresa
	Inventario ConfigInventario
	Sistema    ConfigSistema
}

type ConfigEmpresa struct {
	Nombre    string `validate:"required"`
	Telefono  string
	Direccion string
	Email     string `validate:"omitempty,email"`
}

type ConfigInventario struct {
	AlertaStockBajo    int `validate:"min=0"`
	AlertaStockCritico int `validate:"min=0"`
	DiasBackup         int `validate:"min=1"`
}

type ConfigSistema struct {
	HorarioApertura string
	HorarioCierre   string
	TiempoSesion    int `validate:"min=1"`
}

// ClaveValor is one flat configuration entry as the backend exchanges them.
type ClaveValor struct {
	Clave string `json:"clave"`
	Valor string `json:"valor"`
}

// DesdeMapa reshapes the flat map from GET /configuraciones, filling defaults
// for anything missing or malformed.
func DesdeMapa(m map[string]string) Configuracion {
	return Configuracion{
		Empresa: ConfigEmpresa{
			Nombre:    valorO(m, "empresa_nombre", "Constrefri"),
			Telefono:  valorO(m, "empresa_telefono", ""),
			Direccion: valorO(m, "empresa_direccion", ""),
			Email:     valorO(m, "empresa_email", ""),
		},
		Inventario: ConfigInventario{
			AlertaStockBajo:    enteroO(m, "alerta_stock_bajo", DefaultAlertaStockBajo),
			AlertaStockCritico: enteroO(m, "alerta_stock_critico", DefaultAlertaStockCritico),
			DiasBackup:         enteroO(m, "dias_backup", DefaultDiasBackup),
		},
		Sistema: ConfigSistema{
			HorarioApertura: valorO(m, "horario_apertura", DefaultHorarioApertura),
			HorarioCierre:   valorO(m, "horario_cierre", DefaultHorarioCierre),
			TiempoSesion:    enteroO(m, "tiempo_sesion", DefaultTiempoSesion),
		},
	}
}

// AMapa flattens the nested shape back into the clave/valor pairs consumed by
// POST /configuraciones/actualizar-multiples.
func (c Configuracion) AMapa() []ClaveValor {
	return []ClaveValor{
		{Clave: "empresa_nombre", Valor: c.Empresa.Nombre},
		{Clave: "empresa_telefono", Valor: c.Empresa.Telefono},
		{Clave: "empresa_direccion", Valor: c.Empresa.Direccion},
		{Clave: "empresa_email", Valor: c.Empresa.Email},
		{Clave: "alerta_stock_bajo", Valor: strconv.Itoa(c.Inventario.AlertaStockBajo)},
		{Clave: "alerta_stock_critico", Valor: strconv.Itoa(c.Inventario.AlertaStockCritico)},
		{Clave: "dias_backup", Valor: strconv.Itoa(c.Inventario.DiasBackup)},
		{Clave: "horario_apertura", Valor: c.Sistema.HorarioApertura},
		{Clave: "horario_cierre", Valor: c.Sistema.HorarioCierre},
		{Clave: "tiempo_sesion", Valor: strconv.Itoa(c.Sistema.TiempoSesion)},
	}
}

func valorO(m map[string]string, clave, def string) string {
	if v, ok := m[clave]; ok && v != "" {
		return v
	}
	return def
}

func enteroO(m map[string]string, clave string, def int) int {
	v, ok := m[clave]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
