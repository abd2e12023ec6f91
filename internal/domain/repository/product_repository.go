package repository

import "github.com/manosunidas/donaciones-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve el producto con sus componentes (receta) cargados.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.Product, error)
	ListByCategory(categoryID string) ([]*entity.Product, error)
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	Update(category *entity.Category) error
	Delete(id string) error
	List() ([]*entity.Category, error)
}
