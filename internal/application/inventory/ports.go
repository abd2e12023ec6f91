package inventory

import (
	"context"

	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Los bloqueos adquiridos con
// GetByIDForUpdate dentro del callback se liberan al terminar (commit o
// rollback), de modo que la sección crítica queda acotada al callback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		itemRepo repository.LotItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}
