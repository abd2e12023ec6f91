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

// KitUseCase arma kits: expande la receta (BOM) del producto compuesto,
// consume el stock de cada componente vía el motor FIFO y crea el lote del
// resultado con su movimiento ENTRY. Cada lote consumido queda asentado en
// el libro como EXIT, de modo que el libro reconcilia también para los
// lotes de componentes.
//
// El armado NO es atómico entre componentes: si un componente falla por
// stock, lo ya consumido de componentes anteriores queda aplicado (y
// asentado). Limitación documentada; reintentar un armado fallido puede
// duplicar consumo.
type KitUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	movRepo     repository.MovementRepository
	stock       *StockUseCase
	lots        *LotUseCase
}

// NewKitUseCase construye el caso de uso.
func NewKitUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	movRepo repository.MovementRepository,
	stock *StockUseCase,
	lots *LotUseCase,
) *KitUseCase {
	return &KitUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		movRepo:     movRepo,
		stock:       stock,
		lots:        lots,
	}
}

// Assemble arma `quantity` unidades del kit indicado.
func (uc *KitUseCase) Assemble(ctx context.Context, in dto.KitAssemblyRequest, actorEmail string) (*dto.KitAssemblyResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	log.Info().Str("kit_id", in.KitProductID).Int("quantity", in.Quantity).Str("actor", actorEmail).
		Msg("armando kit")

	kit, err := uc.productRepo.GetByID(in.KitProductID)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, domain.ErrNotFound
	}
	if !kit.IsKit {
		log.Warn().Str("product_id", in.KitProductID).Msg("el producto no es un kit")
		return nil, fmt.Errorf("%w: el producto %q no es un kit (ítem compuesto)", domain.ErrBusinessRule, kit.Name)
	}
	if len(kit.Components) == 0 {
		log.Warn().Str("product_id", in.KitProductID).Msg("kit sin componentes en la receta")
		return nil, fmt.Errorf("%w: el kit %q no tiene componentes definidos en su receta", domain.ErrBusinessRule, kit.Name)
	}

	actor, err := uc.userRepo.GetByEmail(actorEmail)
	if err != nil {
		return nil, fmt.Errorf("resolver actor %s: %w", actorEmail, err)
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}

	// Consumir componentes en el orden de la receta. El motor asienta el
	// EXIT de cada lote descontado en la misma transacción que el descuento,
	// también en consumo parcial: el libro reconcilia con el estado real de
	// los lotes. Un fallo aborta las líneas restantes; lo ya consumido no se
	// restaura.
	for _, line := range kit.Components {
		needed := line.Quantity * in.Quantity
		log.Debug().Str("component_id", line.ComponentID).Int("needed", needed).
			Msg("consumiendo componente del kit")

		if _, err := uc.stock.ConsumeByProduct(ctx, line.ComponentID, needed, actor.ID); err != nil {
			return nil, err
		}
	}

	// Lote resultado: un único ítem con el producto kit.
	lotIn := dto.LotRequest{
		Items: []dto.LotItemRequest{{
			ProductID: kit.ID,
			Quantity:  in.Quantity,
		}},
		EntryDate:    time.Now(),
		UnitMeasure:  entity.UnitUnidad,
		Observations: "Armado automático de Kit: " + kit.Name,
	}
	lot, err := uc.lots.Create(ctx, lotIn, actorEmail)
	if err != nil {
		return nil, fmt.Errorf("crear lote del kit: %w", err)
	}

	movements, err := uc.movRepo.ListByLot(lot.ID)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, fmt.Errorf("movimiento de entrada no encontrado tras crear el lote %s", lot.ID)
	}

	log.Info().Str("lot_id", lot.ID).Str("kit_id", kit.ID).Int("quantity", in.Quantity).
		Msg("kit armado")
	return &dto.KitAssemblyResponse{
		Lot:      *lot,
		Movement: *toMovementResponse(movements[0]),
	}, nil
}
