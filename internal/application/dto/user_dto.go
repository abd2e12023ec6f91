package dto

import "time"

// RegisterRequest body de registro de usuario.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest body de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest body de refresco de sesión.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse usuario en respuestas (sin hash de password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token de acceso + refresh token rotativo + usuario.
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// DashboardResponse resumen para el tablero de la ONG.
type DashboardResponse struct {
	TotalProducts    int `json:"total_products"`
	LotsWithStock    int `json:"lots_with_stock"`
	UnitsInStock     int `json:"units_in_stock"`
	MovementsLast7d  int `json:"movements_last_7d"`
	LotsNearExpiry   int `json:"lots_near_expiry"`
}
