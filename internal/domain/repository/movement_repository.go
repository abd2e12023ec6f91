package repository

import (
	"time"

	"github.com/manosunidas/donaciones-api/internal/domain/entity"
)

// MovementFilter filtros de listado de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	Type   string
	LotID  string
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia del libro de
// movimientos. Es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// ListByLot devuelve los movimientos del lote, más reciente primero.
	ListByLot(lotID string) ([]*entity.Movement, error)
	ListByUser(userID string) ([]*entity.Movement, error)
	List(filter MovementFilter) ([]*entity.Movement, error)
	CountByLot(lotID string) (int, error)
}
