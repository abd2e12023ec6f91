package inventory

import (
	"context"

	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
)

// DonationUseCase entrada rápida de donaciones mixtas: una donación con
// varios productos se descompone en un lote independiente por ítem, para
// que cada producto conserve su propia trazabilidad FIFO.
type DonationUseCase struct {
	lots *LotUseCase
}

// NewDonationUseCase construye el caso de uso.
func NewDonationUseCase(lots *LotUseCase) *DonationUseCase {
	return &DonationUseCase{lots: lots}
}

// ProcessMixedEntry crea un lote por cada ítem donado. Las observaciones del
// lote combinan la observación general con el detalle del ítem.
func (uc *DonationUseCase) ProcessMixedEntry(ctx context.Context, in dto.DonationEntryRequest, actorEmail string) ([]dto.LotResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	created := make([]dto.LotResponse, 0, len(in.Items))
	for _, item := range in.Items {
		observations := in.GeneralObservations
		if observations == "" {
			observations = "Entrada Rápida"
		}
		if item.ItemObservations != "" {
			observations += " | Detalle: " + item.ItemObservations
		}

		unit := item.UnitMeasure
		if unit == "" {
			unit = entity.UnitUnidad
		}

		lotIn := dto.LotRequest{
			Items: []dto.LotItemRequest{{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				ExpiryDate: item.ExpiryDate,
				Size:       item.Size,
				Voltage:    item.Voltage,
			}},
			EntryDate:    in.EntryDate,
			UnitMeasure:  unit,
			Observations: observations,
		}
		lot, err := uc.lots.Create(ctx, lotIn, actorEmail)
		if err != nil {
			return created, err
		}
		created = append(created, *lot)
	}
	return created, nil
}
