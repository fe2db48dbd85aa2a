// Package rbac models the three system roles as a closed union and exposes
// the capability table every view consults before enabling an action.
// All checks are best-effort mirrors of server policy; the backend remains
// the authority and re-validates every mutation.
package rbac

// Role is the closed set of roles the client distinguishes.
type Role int

const (
	Empleado Role = iota
	Administrador
	Dueno
)

// Wire values as stored in usuario.rol.
const (
	rolEmpleado      = "empleado"
	rolAdministrador = "administrador"
	rolDueno         = "dueño"
)

// ParseRol maps the backend's rol string to a Role. Unrecognized values fall
// back to Empleado, the least-privileged role.
func ParseRol(rol string) Role {
	switch rol {
	case rolAdministrador:
		return Administrador
	case rolDueno:
		return Dueno
	default:
		return Empleado
	}
}

func (r Role) String() string {
	switch r {
	case Administrador:
		return rolAdministrador
	case Dueno:
		return rolDueno
	default:
		return rolEmpleado
	}
}

// PuedeCrearUsuarios: only the owner registers new accounts.
func (r Role) PuedeCrearUsuarios() bool { return r == Dueno }

// PuedeEliminarUsuarios: only the owner deactivates accounts.
func (r Role) PuedeEliminarUsuarios() bool { return r == Dueno }

// PuedeEliminarProductos covers both full deletion and partial stock reduction.
func (r Role) PuedeEliminarProductos() bool { return r == Dueno }

// PuedeAprobarMermas: approving or rejecting pending shrinkage requests.
func (r Role) PuedeAprobarMermas() bool { return r == Dueno }

// PuedeRevertirCierres: reversing a processed daily closing.
func (r Role) PuedeRevertirCierres() bool { return r == Dueno }

// PuedeEditarConfiguracion: the settings screen is writable for admin and owner.
func (r Role) PuedeEditarConfiguracion() bool { return r == Administrador || r == Dueno }

// MermaAutoAprobada reports whether a shrinkage submitted by this role takes
// effect immediately ("aprobada") instead of queueing ("pendiente"). The
// server decides; the client only uses this to phrase the form's hint text.
func (r Role) MermaAutoAprobada() bool { return r == Administrador || r == Dueno }
