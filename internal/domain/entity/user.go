package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleCoordinador = "coordinador"
	RoleVoluntario  = "voluntario"
)

// User representa un usuario de la ONG. Todo movimiento registra quién lo hizo.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, coordinador, voluntario
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken es un token de refresco de sesión rotativo: se invalida al
// usarse y se emite uno nuevo.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired indica si el token ya venció.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
