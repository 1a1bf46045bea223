package constants

import "fmt"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Plantillas de mensajes de error por rol
const (
	ErrOnlyAdminsCanAccess = "Acceso denegado. Se requiere rol: admin para %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleUser,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

// ValidRole indica si el rol está dentro del conjunto permitido.
func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
