package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User representa una cuenta del sistema.
type User struct {
	ID           string
	Email        string // normalizado (case-folded), único
	Name         string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // user, admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol es uno de los conocidos.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Actor es la identidad autenticada que ejecuta una operación.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin indica si el actor tiene rol admin.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage indica si el actor es el dueño del recurso o un admin.
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}

// NormalizeEmail recorta espacios y aplica case folding Unicode para que la unicidad
// no dependa de mayúsculas. cases.Caser no es seguro entre goroutines: uno por llamada.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
