package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// StockUseCase concentra las dos operaciones que mutan cantidades:
// la aplicación de un delta a un lote (mutador) y el consumo FIFO de un
// producto a través de sus lotes. Cada lote se muta dentro de su propia
// sección crítica (fila bloqueada vía GetByIDForUpdate dentro de un
// TxRunner); lotes distintos mutan en paralelo sin bloqueo global.
type StockUseCase struct {
	txRunner TxRunner
	lotRepo  repository.LotRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, lotRepo repository.LotRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, lotRepo: lotRepo}
}

// Consumption registra cuánto se descontó de cada lote en un consumo FIFO,
// junto con el movimiento EXIT asentado en la misma transacción que el
// descuento.
type Consumption struct {
	LotID    string
	Quantity int
	Movement *entity.Movement
}

// ApplyDelta aplica atómicamente un delta con signo a la cantidad actual de
// un lote. Dos llamadas concurrentes sobre el mismo lote se serializan:
// ninguna observa un valor obsoleto de la otra. Si el resultado quedaría
// negativo se rechaza con InsufficientStockError (nunca se recorta a cero).
// Asentar el movimiento en el libro es responsabilidad del caller; para
// mutación y asiento en una sola transacción, usar ApplyMovement.
func (uc *StockUseCase) ApplyDelta(ctx context.Context, lotID string, delta int) error {
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.LotItemRepository,
		_ repository.MovementRepository,
	) error {
		return applyDeltaLocked(lotRepo, lotID, delta)
	})
}

// ApplyMovement aplica el delta con signo del movimiento al lote y asienta
// el movimiento en el libro dentro de la misma transacción: o quedan ambos
// efectos, o ninguno. Así la cantidad del lote siempre reconcilia con la
// suma de deltas de su libro, también en los caminos de error.
func (uc *StockUseCase) ApplyMovement(ctx context.Context, movement *entity.Movement) error {
	delta := entity.SignedDelta(movement.Type, movement.Quantity)
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.LotItemRepository,
		movRepo repository.MovementRepository,
	) error {
		lot, err := lockLot(lotRepo, movement.LotID)
		if err != nil {
			return err
		}

		previous := lot.CurrentQuantity
		next := previous + delta
		if next < 0 {
			log.Warn().Str("lot_id", movement.LotID).Int("available", previous).Int("delta", delta).
				Msg("mutación rechazada: dejaría la cantidad negativa")
			return &domain.InsufficientStockError{LotID: movement.LotID, Available: previous}
		}

		// Asentar antes de guardar: si el asiento falla, la cantidad no se toca.
		if err := movRepo.Create(movement); err != nil {
			return fmt.Errorf("asentar movimiento del lote %s: %w", movement.LotID, err)
		}
		lot.CurrentQuantity = next
		if err := lotRepo.SaveQuantity(lot); err != nil {
			return fmt.Errorf("guardar cantidad del lote %s: %w", movement.LotID, err)
		}
		log.Debug().Str("lot_id", movement.LotID).Int("from", previous).Int("to", next).
			Msg("cantidad del lote actualizada")
		return nil
	})
}

// lockLot relee el lote con bloqueo exclusivo dentro de la transacción.
func lockLot(lotRepo repository.LotRepository, lotID string) (*entity.Lot, error) {
	lot, err := lotRepo.GetByIDForUpdate(lotID)
	if err != nil {
		return nil, fmt.Errorf("bloquear lote %s: %w", lotID, err)
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

func applyDeltaLocked(lotRepo repository.LotRepository, lotID string, delta int) error {
	lot, err := lockLot(lotRepo, lotID)
	if err != nil {
		return err
	}

	previous := lot.CurrentQuantity
	next := previous + delta
	if next < 0 {
		log.Warn().Str("lot_id", lotID).Int("available", previous).Int("delta", delta).
			Msg("mutación rechazada: dejaría la cantidad negativa")
		return &domain.InsufficientStockError{LotID: lotID, Available: previous}
	}

	lot.CurrentQuantity = next
	if err := lotRepo.SaveQuantity(lot); err != nil {
		return fmt.Errorf("guardar cantidad del lote %s: %w", lotID, err)
	}
	log.Debug().Str("lot_id", lotID).Int("from", previous).Int("to", next).
		Msg("cantidad del lote actualizada")
	return nil
}

// ConsumeByProduct consume quantityNeeded unidades de un producto agotando
// primero los lotes más antiguos (fecha de entrada ascendente; a igual
// fecha, id ascendente). Cada lote se descuenta en su propia sección
// crítica, y el movimiento EXIT a nombre de userID se asienta en esa misma
// transacción: el ítem, la cantidad del lote y el asiento van juntos.
//
// El consumo multi-lote NO es atómico: si los lotes se agotan antes de
// cubrir lo pedido, lo ya descontado de lotes anteriores queda aplicado y
// asentado, y se devuelve junto con InsufficientStockError (faltante = lo
// no cubierto). El caller decide si compensar o abortar.
func (uc *StockUseCase) ConsumeByProduct(ctx context.Context, productID string, quantityNeeded int, userID string) ([]Consumption, error) {
	if quantityNeeded <= 0 {
		return nil, domain.ErrInvalidInput
	}

	log.Info().Str("product_id", productID).Int("needed", quantityNeeded).
		Msg("consumiendo stock por producto (FIFO)")

	candidates, err := uc.lotRepo.ListByProductWithStock(productID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes del producto %s: %w", productID, err)
	}

	remaining := quantityNeeded
	var consumed []Consumption

	for _, candidate := range candidates {
		if remaining == 0 {
			break
		}
		lotID := candidate.ID

		err := uc.txRunner.Run(ctx, func(
			lotRepo repository.LotRepository,
			itemRepo repository.LotItemRepository,
			movRepo repository.MovementRepository,
		) error {
			// Releer con bloqueo: la cantidad pudo cambiar desde el listado.
			lot, err := lotRepo.GetByIDForUpdate(lotID)
			if err != nil {
				return fmt.Errorf("bloquear lote %s: %w", lotID, err)
			}
			if lot == nil {
				return nil // lote borrado entre el listado y el lock
			}

			item := lot.ItemForProduct(productID)
			if item == nil || item.Quantity <= 0 {
				return nil
			}

			take := item.Quantity
			if take > remaining {
				take = remaining
			}

			movement := &entity.Movement{
				LotID:     lotID,
				UserID:    userID,
				Type:      entity.MovementTypeExit,
				Quantity:  take,
				Timestamp: time.Now(),
			}
			if err := movRepo.Create(movement); err != nil {
				return fmt.Errorf("asentar salida del lote %s: %w", lotID, err)
			}

			item.Quantity -= take
			lot.CurrentQuantity -= take
			if err := itemRepo.SaveQuantity(item); err != nil {
				return fmt.Errorf("guardar ítem del lote %s: %w", lotID, err)
			}
			if err := lotRepo.SaveQuantity(lot); err != nil {
				return fmt.Errorf("guardar cantidad del lote %s: %w", lotID, err)
			}

			remaining -= take
			consumed = append(consumed, Consumption{LotID: lotID, Quantity: take, Movement: movement})
			log.Debug().Str("lot_id", lotID).Str("product_id", productID).Int("taken", take).
				Msg("stock consumido del lote")
			return nil
		})
		if err != nil {
			return consumed, err
		}
	}

	if remaining > 0 {
		log.Error().Str("product_id", productID).Int("needed", quantityNeeded).Int("shortfall", remaining).
			Msg("stock insuficiente: lotes agotados")
		return consumed, &domain.InsufficientStockError{ProductID: productID, Shortfall: remaining}
	}

	log.Info().Str("product_id", productID).Int("lots", len(consumed)).
		Msg("consumo FIFO completado")
	return consumed, nil
}
