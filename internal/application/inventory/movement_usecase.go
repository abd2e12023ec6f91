package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// MovementUseCase asienta y consulta el libro de movimientos. El libro es
// append-only: no expone borrado ni edición, porque la reconstrucción de
// cantidades históricas depende de que la secuencia nunca se altere.
type MovementUseCase struct {
	stock   *StockUseCase
	movRepo repository.MovementRepository
	lotRepo repository.LotRepository
	userRepo repository.UserRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	stock *StockUseCase,
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	userRepo repository.UserRepository,
) *MovementUseCase {
	return &MovementUseCase{stock: stock, movRepo: movRepo, lotRepo: lotRepo, userRepo: userRepo}
}

// Create registra un movimiento sobre un lote: aplica el delta con signo al
// lote y asienta la entrada en el libro, ambos en la misma transacción
// (sección crítica por lote). El actor es el usuario indicado en el request
// o, en su defecto, el autenticado (actorEmail).
func (uc *MovementUseCase) Create(ctx context.Context, in dto.MovementRequest, actorEmail string) (*dto.MovementResponse, error) {
	if !entity.ValidMovementType(in.Type) || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	log.Info().Str("type", in.Type).Str("lot_id", in.LotID).Int("quantity", in.Quantity).
		Msg("registrando movimiento")

	lot, err := uc.lotRepo.GetByID(in.LotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}

	var actor *entity.User
	if in.UserID != "" {
		actor, err = uc.userRepo.GetByID(in.UserID)
	} else {
		actor, err = uc.userRepo.GetByEmail(actorEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver actor: %w", err)
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}

	movement := &entity.Movement{
		LotID:     in.LotID,
		UserID:    actor.ID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Timestamp: time.Now(),
	}
	if err := uc.stock.ApplyMovement(ctx, movement); err != nil {
		return nil, err
	}

	log.Info().Str("movement_id", movement.ID).Msg("movimiento registrado")
	return toMovementResponse(movement), nil
}

// RegisterProductExit registra una salida por distribución a nivel producto:
// consume FIFO a través de los lotes; el motor asienta el movimiento EXIT de
// cada lote en la misma transacción que lo descuenta. Si los lotes se agotan
// a mitad de camino, lo ya descontado queda asentado y se devuelve junto con
// el error de faltante: el libro siempre refleja lo que pasó en los lotes.
func (uc *MovementUseCase) RegisterProductExit(ctx context.Context, in dto.ProductExitRequest, actorEmail string) ([]dto.MovementResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	actor, err := uc.userRepo.GetByEmail(actorEmail)
	if err != nil {
		return nil, fmt.Errorf("resolver actor: %w", err)
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}

	consumed, consumeErr := uc.stock.ConsumeByProduct(ctx, in.ProductID, in.Quantity, actor.ID)

	out := make([]dto.MovementResponse, 0, len(consumed))
	for _, c := range consumed {
		out = append(out, *toMovementResponse(c.Movement))
	}
	if consumeErr != nil {
		return out, consumeErr
	}

	log.Info().Str("product_id", in.ProductID).Int("quantity", in.Quantity).Int("lots", len(out)).
		Msg("salida por producto registrada")
	return out, nil
}

// GetByID obtiene un movimiento.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	movement, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(movement), nil
}

// GetDetails obtiene un movimiento junto con la cantidad del lote antes y
// después de aplicarlo, reconstruida restando el delta con signo a la
// cantidad actual. Solo es correcta si el libro del lote nunca se reordenó.
func (uc *MovementUseCase) GetDetails(ctx context.Context, id string) (*dto.MovementDetailsResponse, error) {
	movement, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	lot, err := uc.lotRepo.GetByID(movement.LotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.MovementDetailsResponse{
		MovementResponse: *toMovementResponse(movement),
		QuantityBefore:   movement.QuantityBefore(lot.CurrentQuantity),
		QuantityAfter:    lot.CurrentQuantity,
	}, nil
}

// List lista movimientos según filtros (tipo, lote, usuario, rango de fechas).
func (uc *MovementUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	movements, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// ListByLot historial de un lote, más reciente primero.
func (uc *MovementUseCase) ListByLot(ctx context.Context, lotID string) ([]dto.MovementResponse, error) {
	movements, err := uc.movRepo.ListByLot(lotID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// ListByUser movimientos registrados por un usuario.
func (uc *MovementUseCase) ListByUser(ctx context.Context, userID string) ([]dto.MovementResponse, error) {
	movements, err := uc.movRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        m.ID,
		LotID:     m.LotID,
		UserID:    m.UserID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Timestamp: m.Timestamp,
	}
}

func toMovementResponses(movements []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, *toMovementResponse(m))
	}
	return out
}
