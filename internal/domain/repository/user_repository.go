package repository

import "github.com/manosunidas/donaciones-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// GetByEmail y GetByID son el directorio de usuarios que resuelve el actor
// de cada movimiento.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
}

// RefreshTokenRepository define el puerto para tokens de refresco rotativos.
type RefreshTokenRepository interface {
	Create(token *entity.RefreshToken) error
	GetByToken(token string) (*entity.RefreshToken, error)
	Delete(id string) error
	DeleteByUser(userID string) error
}
