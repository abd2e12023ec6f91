package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos, incluida la receta (BOM) de los kits.
// Es el catálogo que consultan el motor de consumo y el armado de kits.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, categoryRepo: categoryRepo}
}

// Create da de alta un producto. Si es kit, valida la receta.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	components, err := uc.validateComponents(in, "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:                  uuid.New().String(),
		Name:                in.Name,
		Description:         in.Description,
		ManufacturerBarcode: in.ManufacturerBarcode,
		CategoryID:          in.CategoryID,
		IsKit:               in.IsKit,
		Components:          components,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// validateComponents valida la receta de un kit: solo los kits llevan
// componentes, cada componente debe existir, no ser un kit a su vez (la
// expansión es de un solo nivel), no repetirse ni referenciar al propio
// producto, y su cantidad por unidad debe ser positiva.
func (uc *ProductUseCase) validateComponents(in dto.ProductRequest, selfID string) ([]entity.BOMLine, error) {
	if !in.IsKit {
		if len(in.Components) > 0 {
			return nil, fmt.Errorf("%w: un producto que no es kit no lleva componentes", domain.ErrBusinessRule)
		}
		return nil, nil
	}

	seen := make(map[string]bool, len(in.Components))
	components := make([]entity.BOMLine, 0, len(in.Components))
	for _, line := range in.Components {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if line.ComponentID == selfID && selfID != "" {
			return nil, fmt.Errorf("%w: un kit no puede contenerse a sí mismo", domain.ErrBusinessRule)
		}
		if seen[line.ComponentID] {
			return nil, fmt.Errorf("%w: componente repetido en la receta", domain.ErrBusinessRule)
		}
		seen[line.ComponentID] = true

		component, err := uc.productRepo.GetByID(line.ComponentID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, domain.ErrNotFound
		}
		if component.IsKit {
			return nil, fmt.Errorf("%w: el componente %q es un kit; no se admiten kits anidados", domain.ErrBusinessRule, component.Name)
		}
		components = append(components, entity.BOMLine{ComponentID: line.ComponentID, Quantity: line.Quantity})
	}
	return components, nil
}

// GetByID obtiene un producto con su receta.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto existente y reemplaza su receta.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}

	components, err := uc.validateComponents(in, id)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.ManufacturerBarcode = in.ManufacturerBarcode
	existing.CategoryID = in.CategoryID
	existing.IsKit = in.IsKit
	existing.Components = components
	existing.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return toProductResponse(existing), nil
}

// Delete borra un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

// List lista productos paginados.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	components := make([]dto.BOMLineRequest, 0, len(p.Components))
	for _, line := range p.Components {
		components = append(components, dto.BOMLineRequest{ComponentID: line.ComponentID, Quantity: line.Quantity})
	}
	return &dto.ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		ManufacturerBarcode: p.ManufacturerBarcode,
		CategoryID:          p.CategoryID,
		IsKit:               p.IsKit,
		Components:          components,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
