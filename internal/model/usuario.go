package model

// Usuario is a system user as returned by GET /usuarios and /auth/login.
// Rol: "empleado" | "administrador" | "dueño"
type Usuario struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
}
