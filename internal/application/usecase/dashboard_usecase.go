package usecase

import (
	"context"
	"time"

	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// DashboardUseCase arma el resumen del tablero a partir de los listados
// existentes. Es un read-model liviano: no mantiene estado propio.
type DashboardUseCase struct {
	lotRepo     repository.LotRepository
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) *DashboardUseCase {
	return &DashboardUseCase{lotRepo: lotRepo, movRepo: movRepo, productRepo: productRepo}
}

// Summary devuelve los contadores del tablero: productos, lotes con stock,
// unidades totales, movimientos de la última semana y lotes por vencer (30 días).
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	products, err := uc.productRepo.List(0, 0)
	if err != nil {
		return nil, err
	}

	lots, err := uc.lotRepo.ListWithStock()
	if err != nil {
		return nil, err
	}
	units := 0
	nearExpiry := 0
	expiryLimit := time.Now().AddDate(0, 0, 30)
	for _, lot := range lots {
		units += lot.CurrentQuantity
		for i := range lot.Items {
			if lot.Items[i].ExpiresBefore(expiryLimit) {
				nearExpiry++
				break
			}
		}
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	movements, err := uc.movRepo.List(repository.MovementFilter{From: &weekAgo})
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalProducts:   len(products),
		LotsWithStock:   len(lots),
		UnitsInStock:    units,
		MovementsLast7d: len(movements),
		LotsNearExpiry:  nearExpiry,
	}, nil
}
