// Command unificador is the terminal client of El Unificador: login against
// the backend, then a per-role dashboard from which every feature screen is
// reached. The views hold all the business flow; main only reads input,
// prints state and forwards decisions.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"unificador/internal/api"
	"unificador/internal/apierror"
	"unificador/internal/config"
	"unificador/internal/model"
	"unificador/internal/session"
	"unificador/internal/view"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error cargando configuración:", err)
		os.Exit(1)
	}

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	store, err := session.NewStore(cfg.SessionPath)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo preparar el almacén de sesión")
	}
	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout())

	app := &app{
		cfg:    cfg,
		client: client,
		store:  store,
		in:     bufio.NewReader(os.Stdin),
	}
	app.run()
}

// app owns the interactive loop. It doubles as the Notifier and Confirmer
// every view receives.
type app struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	in     *bufio.Reader
	ses    session.Session
}

// Exito implements view.Notifier.
func (a *app) Exito(mensaje string) { fmt.Println("✔ " + mensaje) }

// Error implements view.Notifier.
func (a *app) Error(mensaje string) { fmt.Println("✘ " + mensaje) }

// Confirmar implements view.Confirmer.
func (a *app) Confirmar(pregunta string) bool {
	fmt.Println(pregunta)
	r := strings.ToLower(a.leer("Confirmar (s/n): "))
	return r == "s" || r == "si" || r == "sí"
}

// Pedir implements view.Confirmer.
func (a *app) Pedir(etiqueta string) (string, bool) {
	v := a.leer(etiqueta + ": ")
	return v, v != ""
}

func (a *app) leer(prompt string) string {
	fmt.Print(prompt)
	linea, err := a.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(linea)
}

func (a *app) leerEntero(prompt string) (int, bool) {
	n, err := strconv.Atoi(a.leer(prompt))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (a *app) run() {
	ses, err := a.store.Current()
	if err != nil {
		ses, err = a.login()
		if err != nil {
			return
		}
	} else {
		fmt.Printf("Sesión recuperada: %s (%s)\n", ses.Usuario.Nombre, ses.Usuario.Rol)
	}
	a.ses = ses
	a.client.SetToken(ses.Token)

	if ses.ExpiraEn != nil && time.Now().After(*ses.ExpiraEn) {
		fmt.Println("La sesión guardada expiró; inicia sesión de nuevo.")
		_ = a.store.Clear()
		if a.ses, err = a.login(); err != nil {
			return
		}
		a.client.SetToken(a.ses.Token)
	}

	a.dashboard()
}

// login prompts for credentials until the backend accepts them or the user
// leaves the email blank.
func (a *app) login() (session.Session, error) {
	fmt.Println("── El Unificador ──")
	for {
		email := a.leer("Email (vacío para salir): ")
		if email == "" {
			return session.Session{}, fmt.Errorf("login cancelado")
		}
		password := a.leer("Contraseña: ")

		resp, err := a.client.Login(context.Background(), email, password)
		if err != nil {
			a.Error(loginMensaje(err))
			continue
		}
		ses, err := a.store.Save(resp.TokenAcceso, resp.Usuario)
		if err != nil {
			log.Warn().Err(err).Msg("no se pudo persistir la sesión")
			ses = session.Session{Token: resp.TokenAcceso, Usuario: resp.Usuario}
		}
		fmt.Printf("Bienvenido, %s (%s)\n", ses.Usuario.Nombre, ses.Usuario.Rol)
		return ses, nil
	}
}

// loginMensaje clasifica el fallo por su tipo: solo un 401 significa
// credenciales malas.
func loginMensaje(err error) string {
	var connErr *apierror.ConnError
	if errors.As(err, &connErr) {
		return "No se pudo conectar con el servidor"
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			return "Credenciales incorrectas"
		}
		return "Error: " + apiErr.Detail
	}
	return err.Error()
}

var titulos = map[view.Seccion]string{
	view.SeccionCierreDiario:  "Cierre Diario",
	view.SeccionConsultaInv:   "Consulta de Inventario",
	view.SeccionAjustesStock:  "Ajustes de Stock",
	view.SeccionReportes:      "Reportes",
	view.SeccionGestionUsers:  "Gestión de Usuarios",
	view.SeccionAuditoria:     "Auditoría",
	view.SeccionReportesAvanz: "Reportes Avanzados",
	view.SeccionConfiguracion: "Configuración del Sistema",
	view.SeccionAprobarMermas: "Aprobar Mermas",
	view.SeccionRevertirProcs: "Revertir Procesos",
}

// dashboard is the inicio screen: metrics plus the role's menu, looping until
// logout or exit.
func (a *app) dashboard() {
	ctx := context.Background()
	d := view.NewDashboard(a.client, a.ses)

	for {
		d.CargarMetricas(ctx)
		m := d.Metricas
		fmt.Printf("\n── Panel de %s ──\n", a.ses.Rol())
		fmt.Printf("Productos: %d | Valor inventario: $%s | Stock bajo: %d | Usuarios: %d\n",
			m.TotalProductos, m.ValorInventario.StringFixed(2), m.StockBajo, m.TotalUsuarios)

		menu := d.Menu()
		for i, s := range menu {
			fmt.Printf("  %d. %s\n", i+1, titulos[s])
		}
		fmt.Println("  s. Cerrar sesión")
		fmt.Println("  q. Salir")

		opcion := a.leer("> ")
		switch opcion {
		case "q", "":
			return
		case "s":
			if err := a.store.Clear(); err != nil {
				log.Warn().Err(err).Msg("no se pudo borrar la sesión")
			}
			fmt.Println("Sesión cerrada.")
			ses, err := a.login()
			if err != nil {
				return
			}
			a.ses = ses
			a.client.SetToken(ses.Token)
			d = view.NewDashboard(a.client, a.ses)
			continue
		}
		n, err := strconv.Atoi(opcion)
		if err != nil || n < 1 || n > len(menu) {
			fmt.Println("Opción no válida.")
			continue
		}
		seccion := menu[n-1]
		if err := d.Ir(seccion); err != nil {
			a.Error(err.Error())
			continue
		}
		a.abrir(ctx, seccion)
		d.Volver()
	}
}

func (a *app) abrir(ctx context.Context, s view.Seccion) {
	fmt.Printf("\n── %s ──\n", titulos[s])
	switch s {
	case view.SeccionCierreDiario:
		a.cierreDiario(ctx)
	case view.SeccionConsultaInv:
		a.consultaInventario(ctx)
	case view.SeccionAjustesStock:
		a.ajustesStock(ctx)
	case view.SeccionReportes, view.SeccionReportesAvanz:
		a.reportes(ctx, s == view.SeccionReportesAvanz)
	case view.SeccionGestionUsers:
		a.gestionUsuarios(ctx)
	case view.SeccionAuditoria:
		a.auditoria(ctx)
	case view.SeccionConfiguracion:
		a.configuracion(ctx)
	case view.SeccionAprobarMermas:
		a.aprobarMermas(ctx)
	case view.SeccionRevertirProcs:
		a.revertirProcesos(ctx)
	}
}

func (a *app) cierreDiario(ctx context.Context) {
	v := view.NewCierreDiario(a.client, a.ses, a)
	ruta := a.leer("Ruta del archivo CSV: ")
	if ruta == "" {
		return
	}
	if err := v.SeleccionarArchivo(ruta); err != nil {
		return
	}
	fmt.Printf("Archivo: %s\n─ vista previa ─\n%s\n────────────────\n", v.NombreArchivo, v.VistaPrevia)
	if !a.Confirmar("¿Subir y procesar este cierre?") {
		return
	}
	if err := v.SubirYProcesar(ctx); err == nil && v.Resultado != nil {
		fmt.Printf("Cierre #%d: %d productos procesados\n", v.Resultado.CierreID, v.Resultado.TotalProcesado)
	}
}

func (a *app) consultaInventario(ctx context.Context) {
	v := view.NewConsultaInventario(a.client, a.ses, a, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	for {
		limiteBajo := v.Config.Inventario.AlertaStockBajo
		limiteCritico := v.Config.Inventario.AlertaStockCritico
		for _, p := range v.Filtrados() {
			banda := view.BandaDe(p.StockActual, limiteBajo, limiteCritico)
			fmt.Printf("  [%d] %-8s %-30s %-15s stock=%-4d (%s) $%s\n",
				p.ID, p.Codigo, p.Nombre, p.Categoria, p.StockActual, banda, p.PrecioVenta.StringFixed(2))
		}
		productos, unidades, categorias := v.Resumen()
		fmt.Printf("%d productos | %d unidades | %d categorías\n", productos, unidades, categorias)

		fmt.Println("  b. Buscar  f. Filtrar banda  c. Filtrar categoría  l. Limpiar filtros")
		if a.ses.Rol().PuedeEliminarProductos() {
			fmt.Println("  r. Reducir stock  e. Eliminar producto")
		}
		fmt.Println("  v. Volver")
		switch a.leer("> ") {
		case "b":
			v.FiltroTexto = a.leer("Texto: ")
		case "f":
			v.FiltroBanda = view.BandaStock(a.leer("Banda (todos/critico/bajo/medio/alto): "))
		case "c":
			fmt.Println("Categorías:", strings.Join(v.Categorias(), ", "))
			v.FiltroCategoria = a.leer("Categoría: ")
		case "l":
			v.LimpiarFiltros()
		case "r":
			id, ok := a.leerEntero("ID de producto: ")
			if !ok {
				continue
			}
			cantidad, ok := a.leerEntero("Unidades a eliminar: ")
			if !ok {
				continue
			}
			_ = v.ReducirStock(ctx, id, cantidad)
		case "e":
			if id, ok := a.leerEntero("ID de producto: "); ok {
				_ = v.EliminarProducto(ctx, id)
			}
		default:
			return
		}
	}
}

func (a *app) ajustesStock(ctx context.Context) {
	v := view.NewAjustesStock(a.client, a.ses, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	for _, p := range v.Productos {
		fmt.Printf("  [%d] %-8s %-30s stock=%d\n", p.ID, p.Codigo, p.Nombre, p.StockActual)
	}
	if a.ses.Rol().MermaAutoAprobada() {
		fmt.Println("Las mermas que registres se aplican de inmediato.")
	} else {
		fmt.Println("Las mermas que registres quedan pendientes de aprobación del dueño.")
	}

	id, ok := a.leerEntero("ID de producto: ")
	if !ok {
		return
	}
	cantidad, ok := a.leerEntero("Cantidad: ")
	if !ok {
		return
	}
	if despues := v.StockDespues(id, cantidad); despues < 0 {
		a.Error("No hay suficiente stock")
		return
	}
	fmt.Println("Motivos:", strings.Join(model.MotivosMerma, ", "))
	motivo := a.leer("Motivo: ")
	observaciones := a.leer("Observaciones (opcional): ")

	_ = v.Enviar(ctx, view.MermaForm{
		ProductoID:    id,
		Cantidad:      cantidad,
		Motivo:        motivo,
		Observaciones: observaciones,
	})
}

func (a *app) reportes(ctx context.Context, avanzado bool) {
	v := view.NewReportes(a.client, a.ses, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	m := v.Resumen.Metricas
	fmt.Printf("Productos: %d | Stock total: %d | Valor: $%s | Activos: %d | Críticos: %d\n",
		m.TotalProductos, m.StockTotal, m.ValorInventario.StringFixed(2),
		m.ProductosActivos, m.StockCriticoCount)

	fmt.Printf("Ventas últimos %d días: $%s\n", len(v.Ventas), v.TotalVentas().StringFixed(2))
	for _, dia := range v.Ventas {
		fmt.Printf("  %s  $%s\n", dia.Fecha, dia.Ventas.StringFixed(2))
	}

	fmt.Println("Por categoría:")
	for _, c := range v.PorCategoria() {
		fmt.Printf("  %-20s %3d productos %5d unidades  $%s\n", c.Categoria, c.Productos, c.Unidades, c.Valor.StringFixed(2))
	}

	if len(v.StockCritico) > 0 {
		fmt.Println("Stock crítico:")
		for _, p := range v.StockCritico {
			fmt.Printf("  %-30s stock=%-4d min=%-4d %s\n", p.Producto, p.Stock, p.Minimo, p.Estado)
		}
	}
	if len(v.MasVendidos) > 0 {
		fmt.Println("Más vendidos:")
		for _, p := range v.MasVendidos {
			fmt.Printf("  %-30s %4d vendidos  $%s\n", p.Producto, p.Vendidos, p.Ingresos.StringFixed(2))
		}
	}

	if avanzado && a.Confirmar("¿Exportar a PDF?") {
		_, _ = v.ExportarPDF(a.cfg.PDFStoragePath)
	}
}

func (a *app) gestionUsuarios(ctx context.Context) {
	v := view.NewGestionUsuarios(a.client, a.ses, a, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	for {
		for _, u := range v.Usuarios {
			fmt.Printf("  [%d] %-25s %-30s %s\n", u.ID, u.Nombre, u.Email, u.Rol)
		}
		if a.ses.Rol().PuedeCrearUsuarios() {
			fmt.Println("  c. Crear usuario  e. Eliminar usuario")
		}
		fmt.Println("  v. Volver")
		switch a.leer("> ") {
		case "c":
			_ = v.Crear(ctx, view.UsuarioForm{
				Nombre:   a.leer("Nombre: "),
				Email:    a.leer("Email: "),
				Password: a.leer("Contraseña: "),
				Rol:      a.leer("Rol (empleado/administrador/dueño): "),
			})
		case "e":
			if id, ok := a.leerEntero("ID de usuario: "); ok {
				_ = v.Eliminar(ctx, id)
			}
		default:
			return
		}
	}
}

func (a *app) auditoria(ctx context.Context) {
	v := view.NewAuditoria(a.client, a.ses, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	for {
		for _, r := range v.Filtrados() {
			imprimirRegistro(r)
		}
		fmt.Println("  u. Filtrar usuario  a. Filtrar acción  d. Filtrar fechas  l. Limpiar  v. Volver")
		switch a.leer("> ") {
		case "u":
			v.Filtro.Usuario = a.leer("Usuario (nombre, email o id): ")
		case "a":
			fmt.Println("Acciones:", strings.Join(v.AccionesUnicas(), ", "))
			v.Filtro.Accion = a.leer("Acción: ")
		case "d":
			v.Filtro.Desde = a.leerFecha("Desde (YYYY-MM-DD, vacío para omitir): ")
			v.Filtro.Hasta = a.leerFecha("Hasta (YYYY-MM-DD, vacío para omitir): ")
		case "l":
			v.Filtro = view.FiltroAuditoria{}
		default:
			return
		}
	}
}

func (a *app) leerFecha(prompt string) *time.Time {
	s := a.leer(prompt)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		a.Error("Fecha no válida, se ignora")
		return nil
	}
	return &t
}

func (a *app) configuracion(ctx context.Context) {
	v := view.NewConfiguracionSistema(a.client, a.ses, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	c := &v.Config
	fmt.Printf("Empresa: %s | Tel: %s | Dir: %s | Email: %s\n",
		c.Empresa.Nombre, c.Empresa.Telefono, c.Empresa.Direccion, c.Empresa.Email)
	fmt.Printf("Alertas: bajo=%d crítico=%d | Backup cada %d días\n",
		c.Inventario.AlertaStockBajo, c.Inventario.AlertaStockCritico, c.Inventario.DiasBackup)
	fmt.Printf("Horario: %s–%s | Sesión: %d min\n",
		c.Sistema.HorarioApertura, c.Sistema.HorarioCierre, c.Sistema.TiempoSesion)

	if !a.ses.Rol().PuedeEditarConfiguracion() || !a.Confirmar("¿Editar la configuración?") {
		return
	}
	asignar := func(prompt string, destino *string) {
		if s := a.leer(prompt + " [" + *destino + "]: "); s != "" {
			*destino = s
		}
	}
	asignarEntero := func(prompt string, destino *int) {
		if s := a.leer(fmt.Sprintf("%s [%d]: ", prompt, *destino)); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				*destino = n
			}
		}
	}
	asignar("Nombre de empresa", &c.Empresa.Nombre)
	asignar("Teléfono", &c.Empresa.Telefono)
	asignar("Dirección", &c.Empresa.Direccion)
	asignar("Email", &c.Empresa.Email)
	asignarEntero("Alerta stock bajo", &c.Inventario.AlertaStockBajo)
	asignarEntero("Alerta stock crítico", &c.Inventario.AlertaStockCritico)
	asignarEntero("Días de backup", &c.Inventario.DiasBackup)
	asignar("Horario apertura", &c.Sistema.HorarioApertura)
	asignar("Horario cierre", &c.Sistema.HorarioCierre)
	asignarEntero("Tiempo de sesión (min)", &c.Sistema.TiempoSesion)

	_ = v.Guardar(ctx)
}

func (a *app) aprobarMermas(ctx context.Context) {
	v := view.NewAprobarMermas(a.client, a.ses, a, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	for {
		if len(v.Pendientes) == 0 {
			fmt.Println("No hay mermas pendientes.")
			return
		}
		for _, m := range v.Pendientes {
			fmt.Printf("  [%d] %s x%d — %s (stock actual %d) solicitado por %s el %s\n",
				m.ID, m.ProductoNombre, m.Cantidad, m.Motivo, m.ProductoStock,
				m.UsuarioSolicitudNombre, m.FechaSolicitud.Format("02/01/2006"))
			if m.Observaciones != "" {
				fmt.Printf("      obs: %s\n", m.Observaciones)
			}
		}
		fmt.Println("  a. Aprobar  r. Rechazar  v. Volver")
		switch a.leer("> ") {
		case "a":
			if id, ok := a.leerEntero("ID de merma: "); ok {
				_ = v.Aprobar(ctx, id)
			}
		case "r":
			if id, ok := a.leerEntero("ID de merma: "); ok {
				_ = v.Rechazar(ctx, id)
			}
		default:
			return
		}
	}
}

func (a *app) revertirProcesos(ctx context.Context) {
	v := view.NewRevertirProcesos(a.client, a.ses, a, a)
	if err := v.Cargar(ctx); err != nil {
		return
	}
	for {
		for _, r := range v.Filtrados() {
			imprimirRegistro(r)
			if view.PuedeRevertir(r) {
				fmt.Println("      → reversible")
			}
		}
		fmt.Println("  r. Revertir proceso  u. Filtrar usuario  a. Filtrar acción  v. Volver")
		switch a.leer("> ") {
		case "r":
			if id, ok := a.leerEntero("ID de proceso: "); ok {
				_ = v.Revertir(ctx, id)
			}
		case "u":
			v.Filtro.Usuario = a.leer("Usuario: ")
		case "a":
			v.Filtro.Accion = a.leer("Acción: ")
		default:
			return
		}
	}
}

func imprimirRegistro(r model.RegistroAuditoria) {
	marca := " "
	if r.Revertido {
		marca = "↩"
	}
	fmt.Printf("  [%d]%s %s  %-25s %-20s %s\n",
		r.ID, marca, r.Fecha.Format("02/01/2006 15:04"), model.DescripcionAccion(r.Accion),
		r.UsuarioNombre, r.Detalles)
}
