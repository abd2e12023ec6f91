package memory

import (
	"sort"
	"strings"

	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	store *Store
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

// NewProductRepo crea el repositorio de productos.
func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = copyProduct(product)
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(stored), nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[product.ID]; !ok {
		return nil
	}
	r.store.products[product.ID] = copyProduct(product)
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *ProductRepo) ListByCategory(categoryID string) ([]*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.CategoryID == categoryID {
			out = append(out, copyProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func copyProduct(p *entity.Product) *entity.Product {
	dup := *p
	if p.Components != nil {
		dup.Components = make([]entity.BOMLine, len(p.Components))
		copy(dup.Components, p.Components)
	}
	return &dup
}

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	store *Store
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// NewCategoryRepo crea el repositorio de categorías.
func NewCategoryRepo(store *Store) *CategoryRepo {
	return &CategoryRepo{store: store}
}

func (r *CategoryRepo) Create(category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	dup := *category
	r.store.categories[category.ID] = &dup
	return nil
}

func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.categories[id]
	if !ok {
		return nil, nil
	}
	dup := *stored
	return &dup, nil
}

// GetByName compara sin distinguir mayúsculas, igual que el índice único
// citext del esquema SQL.
func (r *CategoryRepo) GetByName(name string) (*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.categories {
		if strings.EqualFold(c.Name, name) {
			dup := *c
			return &dup, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.categories[category.ID]; !ok {
		return nil
	}
	dup := *category
	r.store.categories[category.ID] = &dup
	return nil
}

func (r *CategoryRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.categories, id)
	return nil
}

func (r *CategoryRepo) List() ([]*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Category
	for _, c := range r.store.categories {
		dup := *c
		out = append(out, &dup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
