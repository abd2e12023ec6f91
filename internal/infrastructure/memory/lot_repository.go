package memory

import (
	"sort"
	"strings"

	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// LotRepo implementación en memoria de LotRepository. Igual que el
// repositorio SQL, las lecturas devuelven copias: mutar el resultado no
// toca el almacén hasta llamar a SaveQuantity/Update.
type LotRepo struct {
	store *Store
	sess  *session // nil fuera de un TxRunner
}

var _ repository.LotRepository = (*LotRepo)(nil)

// NewLotRepo crea un repositorio de lotes sin sesión (solo lecturas y altas).
func NewLotRepo(store *Store) *LotRepo {
	return &LotRepo{store: store}
}

func (r *LotRepo) Create(lot *entity.Lot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := copyLot(lot)
	stored.Items = nil
	r.store.lots[lot.ID] = stored
	return nil
}

func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.loadLot(id), nil
}

// GetByIDForUpdate adquiere el mutex del lote en la sesión antes de leer.
// Sin sesión degrada a una lectura simple.
func (r *LotRepo) GetByIDForUpdate(id string) (*entity.Lot, error) {
	if r.sess != nil {
		r.sess.lockLot(id)
	}
	return r.GetByID(id)
}

func (r *LotRepo) SaveQuantity(lot *entity.Lot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.lots[lot.ID]
	if !ok {
		return nil
	}
	stored.CurrentQuantity = lot.CurrentQuantity
	return nil
}

func (r *LotRepo) Update(lot *entity.Lot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.lots[lot.ID]; !ok {
		return nil
	}
	stored := copyLot(lot)
	stored.Items = nil
	r.store.lots[lot.ID] = stored
	return nil
}

func (r *LotRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.lots, id)
	return nil
}

func (r *LotRepo) List(filter repository.LotFilter) ([]*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Lot
	for id := range r.store.lots {
		lot := r.loadLot(id)
		if !matchesFilter(lot, filter) {
			continue
		}
		out = append(out, lot)
	}
	sortLotsFIFO(out)

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *LotRepo) ListWithStock() ([]*entity.Lot, error) {
	withStock := true
	return r.List(repository.LotFilter{WithStock: &withStock})
}

func (r *LotRepo) ListByProductWithStock(productID string) ([]*entity.Lot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Lot
	for id := range r.store.lots {
		lot := r.loadLot(id)
		item := lot.ItemForProduct(productID)
		if item == nil || item.Quantity <= 0 {
			continue
		}
		out = append(out, lot)
	}
	sortLotsFIFO(out)
	return out, nil
}

// loadLot copia el lote y adjunta sus ítems. Requiere store.mu tomado.
func (r *LotRepo) loadLot(id string) *entity.Lot {
	stored, ok := r.store.lots[id]
	if !ok {
		return nil
	}
	lot := copyLot(stored)
	for _, item := range r.store.items {
		if item.LotID == id {
			lot.Items = append(lot.Items, *item)
		}
	}
	sort.Slice(lot.Items, func(i, j int) bool { return lot.Items[i].ID < lot.Items[j].ID })
	return lot
}

func matchesFilter(lot *entity.Lot, filter repository.LotFilter) bool {
	if filter.ProductID != "" && lot.ItemForProduct(filter.ProductID) == nil {
		return false
	}
	if filter.EntryFrom != nil && lot.EntryDate.Before(*filter.EntryFrom) {
		return false
	}
	if filter.EntryTo != nil && lot.EntryDate.After(*filter.EntryTo) {
		return false
	}
	if filter.ExpiryFrom != nil || filter.ExpiryTo != nil {
		matched := false
		for _, item := range lot.Items {
			if item.ExpiryDate == nil {
				continue
			}
			if filter.ExpiryFrom != nil && item.ExpiryDate.Before(*filter.ExpiryFrom) {
				continue
			}
			if filter.ExpiryTo != nil && item.ExpiryDate.After(*filter.ExpiryTo) {
				continue
			}
			matched = true
			break
		}
		if !matched {
			return false
		}
	}
	if filter.WithStock != nil && *filter.WithStock != lot.HasStock() {
		return false
	}
	if filter.Search != "" &&
		!strings.Contains(strings.ToLower(lot.Observations), strings.ToLower(filter.Search)) {
		return false
	}
	return true
}

// sortLotsFIFO ordena por fecha de entrada ascendente y a igual fecha por id.
func sortLotsFIFO(lots []*entity.Lot) {
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].EntryDate.Equal(lots[j].EntryDate) {
			return lots[i].EntryDate.Before(lots[j].EntryDate)
		}
		return lots[i].ID < lots[j].ID
	})
}

func copyLot(lot *entity.Lot) *entity.Lot {
	dup := *lot
	if lot.Items != nil {
		dup.Items = make([]entity.LotItem, len(lot.Items))
		copy(dup.Items, lot.Items)
	}
	return &dup
}

// LotItemRepo implementación en memoria de LotItemRepository.
type LotItemRepo struct {
	store *Store
}

var _ repository.LotItemRepository = (*LotItemRepo)(nil)

// NewLotItemRepo crea el repositorio de ítems.
func NewLotItemRepo(store *Store) *LotItemRepo {
	return &LotItemRepo{store: store}
}

func (r *LotItemRepo) CreateMany(items []entity.LotItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range items {
		item := items[i]
		r.store.items[item.ID] = &item
	}
	return nil
}

func (r *LotItemRepo) ListByLot(lotID string) ([]entity.LotItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []entity.LotItem
	for _, item := range r.store.items {
		if item.LotID == lotID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LotItemRepo) SaveQuantity(item *entity.LotItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.items[item.ID]
	if !ok {
		return nil
	}
	stored.Quantity = item.Quantity
	return nil
}

func (r *LotItemRepo) DeleteByLot(lotID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, item := range r.store.items {
		if item.LotID == lotID {
			delete(r.store.items, id)
		}
	}
	return nil
}
