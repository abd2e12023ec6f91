package repository

import (
	"time"

	"github.com/manosunidas/donaciones-api/internal/domain/entity"
)

// LotFilter filtros de listado de lotes. Los punteros nil no filtran.
type LotFilter struct {
	ProductID    string
	EntryFrom    *time.Time
	EntryTo      *time.Time
	ExpiryFrom   *time.Time
	ExpiryTo     *time.Time
	WithStock    *bool
	Search       string // busca en observaciones
	Limit        int
	Offset       int
}

// LotRepository define el puerto de persistencia para Lot (DIP).
// GetByID y los listados devuelven el lote con sus ítems cargados.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// GetByIDForUpdate bloquea el registro del lote para la sección crítica
	// (SELECT FOR UPDATE o equivalente). Solo válido dentro de un TxRunner.
	GetByIDForUpdate(id string) (*entity.Lot, error)
	// SaveQuantity persiste la cantidad actual del lote.
	SaveQuantity(lot *entity.Lot) error
	// Update reemplaza los campos del lote (el caller valida que no tenga movimientos).
	Update(lot *entity.Lot) error
	Delete(id string) error
	List(filter LotFilter) ([]*entity.Lot, error)
	// ListWithStock lista lotes con cantidad actual > 0.
	ListWithStock() ([]*entity.Lot, error)
	// ListByProductWithStock lista lotes que contienen un ítem del producto con
	// cantidad de ítem > 0, ordenados por fecha de entrada ascendente y, a
	// igual fecha, por id ascendente (orden FIFO determinista).
	ListByProductWithStock(productID string) ([]*entity.Lot, error)
}

// LotItemRepository almacén explícito de ítems indexado por lote.
// El borrado de un lote elimina sus ítems de forma explícita vía DeleteByLot,
// nunca por cascada implícita.
type LotItemRepository interface {
	CreateMany(items []entity.LotItem) error
	ListByLot(lotID string) ([]entity.LotItem, error)
	// SaveQuantity persiste la cantidad del ítem.
	SaveQuantity(item *entity.LotItem) error
	DeleteByLot(lotID string) error
}
