package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
// La receta de los kits vive en product_components (una fila por línea).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y su receta.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, manufacturer_barcode, category_id, is_kit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.ManufacturerBarcode,
		product.CategoryID, product.IsKit, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return r.saveComponents(product)
}

// GetByID obtiene el producto con su receta cargada, o nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, name, description, manufacturer_barcode, category_id, is_kit, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.ManufacturerBarcode,
		&p.CategoryID, &p.IsKit, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadComponents(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update reemplaza el producto y reescribe su receta.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, manufacturer_barcode = $4,
		    category_id = $5, is_kit = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.ManufacturerBarcode,
		product.CategoryID, product.IsKit, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM product_components WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("clear product components: %w", err)
	}
	return r.saveComponents(product)
}

// Delete elimina el producto y su receta.
func (r *ProductRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM product_components WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("delete product components: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List lista productos por nombre con paginado.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, name, description, manufacturer_barcode, category_id, is_kit, created_at, updated_at
		FROM products ORDER BY name ASC`
	var args []any
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $1`
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	return r.queryProducts(query, args...)
}

// ListByCategory lista los productos de una categoría.
func (r *ProductRepo) ListByCategory(categoryID string) ([]*entity.Product, error) {
	query := `
		SELECT id, name, description, manufacturer_barcode, category_id, is_kit, created_at, updated_at
		FROM products WHERE category_id = $1 ORDER BY name ASC`
	return r.queryProducts(query, categoryID)
}

func (r *ProductRepo) queryProducts(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.ManufacturerBarcode,
			&p.CategoryID, &p.IsKit, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	for _, p := range products {
		if err := r.loadComponents(p); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *ProductRepo) loadComponents(product *entity.Product) error {
	query := `
		SELECT component_id, quantity
		FROM product_components WHERE product_id = $1 ORDER BY component_id ASC`
	rows, err := r.q.Query(context.Background(), query, product.ID)
	if err != nil {
		return fmt.Errorf("list product components: %w", err)
	}
	defer rows.Close()

	product.Components = nil
	for rows.Next() {
		var line entity.BOMLine
		if err := rows.Scan(&line.ComponentID, &line.Quantity); err != nil {
			return fmt.Errorf("scan product component: %w", err)
		}
		product.Components = append(product.Components, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate product components: %w", err)
	}
	return nil
}

func (r *ProductRepo) saveComponents(product *entity.Product) error {
	query := `
		INSERT INTO product_components (product_id, component_id, quantity)
		VALUES ($1, $2, $3)`
	for _, line := range product.Components {
		if _, err := r.q.Exec(context.Background(), query,
			product.ID, line.ComponentID, line.Quantity); err != nil {
			return fmt.Errorf("create product component: %w", err)
		}
	}
	return nil
}
