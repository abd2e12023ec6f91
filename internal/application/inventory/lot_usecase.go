package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// LotUseCase ciclo de vida de lotes: alta con sus ítems y movimiento ENTRY,
// consultas, y edición/borrado solo mientras el lote no tenga movimientos.
type LotUseCase struct {
	txRunner    TxRunner
	lotRepo     repository.LotRepository
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(
	txRunner TxRunner,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *LotUseCase {
	return &LotUseCase{
		txRunner:    txRunner,
		lotRepo:     lotRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// Create da de alta un lote con 1..N ítems. La cantidad inicial y la actual
// arrancan en la suma de los ítems, y el alta asienta el movimiento ENTRY
// por esa cantidad a nombre del actor (email autenticado).
func (uc *LotUseCase) Create(ctx context.Context, in dto.LotRequest, actorEmail string) (*dto.LotResponse, error) {
	lot, items, err := uc.buildLot(in)
	if err != nil {
		return nil, err
	}

	actor, err := uc.userRepo.GetByEmail(actorEmail)
	if err != nil {
		return nil, fmt.Errorf("resolver actor %s: %w", actorEmail, err)
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		itemRepo repository.LotItemRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := lotRepo.Create(lot); err != nil {
			return fmt.Errorf("crear lote: %w", err)
		}
		if err := itemRepo.CreateMany(items); err != nil {
			return fmt.Errorf("crear ítems del lote: %w", err)
		}
		movement := &entity.Movement{
			LotID:     lot.ID,
			UserID:    actor.ID,
			Type:      entity.MovementTypeEntry,
			Quantity:  lot.InitialQuantity,
			Timestamp: time.Now(),
		}
		if err := movRepo.Create(movement); err != nil {
			return fmt.Errorf("asentar movimiento de entrada: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lot.Items = items
	log.Info().Str("lot_id", lot.ID).Int("quantity", lot.InitialQuantity).
		Msg("lote creado")
	return toLotResponse(lot), nil
}

// buildLot valida el request y materializa el lote con sus ítems (ids ya
// asignados, cantidades sumadas).
func (uc *LotUseCase) buildLot(in dto.LotRequest) (*entity.Lot, []entity.LotItem, error) {
	if len(in.Items) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	if !entity.ValidUnit(in.UnitMeasure) {
		return nil, nil, domain.ErrInvalidInput
	}

	total := 0
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, nil, domain.ErrInvalidInput
		}
		total += item.Quantity
	}

	lot := &entity.Lot{
		ID:              uuid.New().String(),
		EntryDate:       in.EntryDate,
		InitialQuantity: total,
		CurrentQuantity: total,
		UnitMeasure:     in.UnitMeasure,
		Observations:    in.Observations,
		CreatedAt:       time.Now(),
	}

	items := make([]entity.LotItem, 0, len(in.Items))
	for _, itemIn := range in.Items {
		product, err := uc.productRepo.GetByID(itemIn.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("buscar producto %s: %w", itemIn.ProductID, err)
		}
		if product == nil {
			return nil, nil, domain.ErrNotFound
		}
		items = append(items, entity.LotItem{
			ID:         uuid.New().String(),
			LotID:      lot.ID,
			ProductID:  itemIn.ProductID,
			Quantity:   itemIn.Quantity,
			ExpiryDate: itemIn.ExpiryDate,
			Size:       itemIn.Size,
			Voltage:    itemIn.Voltage,
		})
	}
	return lot, items, nil
}

// GetByID obtiene un lote con sus ítems.
func (uc *LotUseCase) GetByID(ctx context.Context, id string) (*dto.LotResponse, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return toLotResponse(lot), nil
}

// GetDetails obtiene un lote junto con el total de movimientos registrados.
func (uc *LotUseCase) GetDetails(ctx context.Context, id string) (*dto.LotDetailsResponse, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.movRepo.CountByLot(id)
	if err != nil {
		return nil, fmt.Errorf("contar movimientos del lote %s: %w", id, err)
	}
	return &dto.LotDetailsResponse{LotResponse: *toLotResponse(lot), TotalMovements: count}, nil
}

// List lista lotes según filtros (producto, rango de fechas, con stock, búsqueda).
func (uc *LotUseCase) List(ctx context.Context, filter repository.LotFilter) ([]dto.LotResponse, error) {
	lots, err := uc.lotRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return toLotResponses(lots), nil
}

// ListWithStock lista lotes con cantidad actual > 0. Un lote en exactamente
// cero queda excluido.
func (uc *LotUseCase) ListWithStock(ctx context.Context) ([]dto.LotResponse, error) {
	lots, err := uc.lotRepo.ListWithStock()
	if err != nil {
		return nil, err
	}
	return toLotResponses(lots), nil
}

// ListNearExpiry lista lotes con stock que tienen algún ítem venciendo antes
// de hoy + days.
func (uc *LotUseCase) ListNearExpiry(ctx context.Context, days int) ([]dto.LotResponse, error) {
	lots, err := uc.lotRepo.ListWithStock()
	if err != nil {
		return nil, err
	}
	limit := time.Now().AddDate(0, 0, days)
	var near []*entity.Lot
	for _, lot := range lots {
		for i := range lot.Items {
			if lot.Items[i].ExpiresBefore(limit) {
				near = append(near, lot)
				break
			}
		}
	}
	return toLotResponses(near), nil
}

// Update reemplaza los campos e ítems de un lote. Un lote con movimientos
// registrados es inmutable: el historial de distribución nunca se reescribe.
func (uc *LotUseCase) Update(ctx context.Context, id string, in dto.LotRequest) (*dto.LotResponse, error) {
	existing, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.movRepo.CountByLot(id)
	if err != nil {
		return nil, fmt.Errorf("contar movimientos del lote %s: %w", id, err)
	}
	if count > 0 {
		return nil, domain.ErrLotHasMovements
	}

	lot, items, err := uc.buildLot(in)
	if err != nil {
		return nil, err
	}
	// Conservar identidad y fecha de alta del lote original.
	lot.ID = existing.ID
	lot.CreatedAt = existing.CreatedAt
	for i := range items {
		items[i].LotID = lot.ID
	}

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		itemRepo repository.LotItemRepository,
		_ repository.MovementRepository,
	) error {
		if err := itemRepo.DeleteByLot(lot.ID); err != nil {
			return fmt.Errorf("borrar ítems previos: %w", err)
		}
		if err := itemRepo.CreateMany(items); err != nil {
			return fmt.Errorf("crear ítems: %w", err)
		}
		if err := lotRepo.Update(lot); err != nil {
			return fmt.Errorf("actualizar lote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	lot.Items = items
	return toLotResponse(lot), nil
}

// Delete borra un lote sin movimientos, eliminando antes sus ítems de forma
// explícita (sin cascada implícita).
func (uc *LotUseCase) Delete(ctx context.Context, id string) error {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	count, err := uc.movRepo.CountByLot(id)
	if err != nil {
		return fmt.Errorf("contar movimientos del lote %s: %w", id, err)
	}
	if count > 0 {
		return domain.ErrLotHasMovements
	}

	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		itemRepo repository.LotItemRepository,
		_ repository.MovementRepository,
	) error {
		if err := itemRepo.DeleteByLot(id); err != nil {
			return fmt.Errorf("borrar ítems del lote: %w", err)
		}
		if err := lotRepo.Delete(id); err != nil {
			return fmt.Errorf("borrar lote: %w", err)
		}
		return nil
	})
}

func toLotResponse(lot *entity.Lot) *dto.LotResponse {
	items := make([]dto.LotItemResponse, 0, len(lot.Items))
	for _, item := range lot.Items {
		items = append(items, dto.LotItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			ExpiryDate: item.ExpiryDate,
			Size:       item.Size,
			Voltage:    item.Voltage,
		})
	}
	return &dto.LotResponse{
		ID:              lot.ID,
		EntryDate:       lot.EntryDate,
		InitialQuantity: lot.InitialQuantity,
		CurrentQuantity: lot.CurrentQuantity,
		UnitMeasure:     lot.UnitMeasure,
		Observations:    lot.Observations,
		Barcode:         lot.BarcodeContent(),
		Items:           items,
	}
}

func toLotResponses(lots []*entity.Lot) []dto.LotResponse {
	out := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, *toLotResponse(lot))
	}
	return out
}
