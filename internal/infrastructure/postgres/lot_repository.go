package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, entry_date, initial_quantity, current_quantity, unit_measure, observations, created_at`

// Create persiste el lote (sin sus ítems; eso es de LotItemRepository).
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, entry_date, initial_quantity, current_quantity, unit_measure, observations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.EntryDate, lot.InitialQuantity, lot.CurrentQuantity,
		lot.UnitMeasure, lot.Observations, lot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID obtiene el lote con sus ítems cargados, o nil si no existe.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene el lote bloqueando su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de un TxRunner: el bloqueo vive hasta el commit.
func (r *LotRepo) GetByIDForUpdate(id string) (*entity.Lot, error) {
	return r.getByID(id, true)
}

func (r *LotRepo) getByID(id string, forUpdate bool) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var l entity.Lot
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.EntryDate, &l.InitialQuantity, &l.CurrentQuantity,
		&l.UnitMeasure, &l.Observations, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	if err := r.loadItems(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveQuantity persiste la cantidad actual del lote.
func (r *LotRepo) SaveQuantity(lot *entity.Lot) error {
	query := `UPDATE lots SET current_quantity = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lot.ID, lot.CurrentQuantity)
	if err != nil {
		return fmt.Errorf("save lot quantity: %w", err)
	}
	return nil
}

// Update reemplaza los campos editables del lote.
func (r *LotRepo) Update(lot *entity.Lot) error {
	query := `
		UPDATE lots
		SET entry_date = $2, initial_quantity = $3, current_quantity = $4,
		    unit_measure = $5, observations = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.EntryDate, lot.InitialQuantity, lot.CurrentQuantity,
		lot.UnitMeasure, lot.Observations,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}

// Delete elimina el lote. Los ítems se borran aparte vía LotItemRepository.
func (r *LotRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

// List lista lotes según el filtro en orden FIFO (entrada ascendente, id
// ascendente), el mismo orden en que el consumo los agota.
func (r *LotRepo) List(filter repository.LotFilter) ([]*entity.Lot, error) {
	query := `SELECT DISTINCT l.id, l.entry_date, l.initial_quantity, l.current_quantity,
		l.unit_measure, l.observations, l.created_at
		FROM lots l`
	var args []any
	var where []string

	if filter.ProductID != "" || filter.ExpiryFrom != nil || filter.ExpiryTo != nil {
		query += ` JOIN lot_items i ON i.lot_id = l.id`
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where = append(where, `i.product_id = $`+strconv.Itoa(len(args)))
	}
	if filter.ExpiryFrom != nil {
		args = append(args, *filter.ExpiryFrom)
		where = append(where, `i.expiry_date >= $`+strconv.Itoa(len(args)))
	}
	if filter.ExpiryTo != nil {
		args = append(args, *filter.ExpiryTo)
		where = append(where, `i.expiry_date <= $`+strconv.Itoa(len(args)))
	}
	if filter.EntryFrom != nil {
		args = append(args, *filter.EntryFrom)
		where = append(where, `l.entry_date >= $`+strconv.Itoa(len(args)))
	}
	if filter.EntryTo != nil {
		args = append(args, *filter.EntryTo)
		where = append(where, `l.entry_date <= $`+strconv.Itoa(len(args)))
	}
	if filter.WithStock != nil {
		if *filter.WithStock {
			where = append(where, `l.current_quantity > 0`)
		} else {
			where = append(where, `l.current_quantity = 0`)
		}
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, `l.observations ILIKE $`+strconv.Itoa(len(args)))
	}

	for i, w := range where {
		if i == 0 {
			query += ` WHERE ` + w
		} else {
			query += ` AND ` + w
		}
	}
	query += ` ORDER BY l.entry_date ASC, l.id ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	return r.queryLots(query, args...)
}

// ListWithStock lista lotes con cantidad actual > 0.
func (r *LotRepo) ListWithStock() ([]*entity.Lot, error) {
	withStock := true
	return r.List(repository.LotFilter{WithStock: &withStock})
}

// ListByProductWithStock lista lotes con stock del producto en orden FIFO
// determinista: fecha de entrada ascendente, a igual fecha id ascendente.
func (r *LotRepo) ListByProductWithStock(productID string) ([]*entity.Lot, error) {
	query := `
		SELECT l.id, l.entry_date, l.initial_quantity, l.current_quantity,
		       l.unit_measure, l.observations, l.created_at
		FROM lots l
		JOIN lot_items i ON i.lot_id = l.id
		WHERE i.product_id = $1 AND i.quantity > 0
		ORDER BY l.entry_date ASC, l.id ASC`
	return r.queryLots(query, productID)
}

func (r *LotRepo) queryLots(query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(
			&l.ID, &l.EntryDate, &l.InitialQuantity, &l.CurrentQuantity,
			&l.UnitMeasure, &l.Observations, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lots: %w", err)
	}
	for _, l := range lots {
		if err := r.loadItems(l); err != nil {
			return nil, err
		}
	}
	return lots, nil
}

func (r *LotRepo) loadItems(lot *entity.Lot) error {
	items, err := NewLotItemRepository(r.q).ListByLot(lot.ID)
	if err != nil {
		return err
	}
	lot.Items = items
	return nil
}

var _ repository.LotItemRepository = (*LotItemRepo)(nil)

// LotItemRepo implementación de LotItemRepository sobre PostgreSQL.
type LotItemRepo struct {
	q Querier
}

// NewLotItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewLotItemRepository(q Querier) *LotItemRepo {
	return &LotItemRepo{q: q}
}

// CreateMany persiste los ítems de un lote.
func (r *LotItemRepo) CreateMany(items []entity.LotItem) error {
	query := `
		INSERT INTO lot_items (id, lot_id, product_id, quantity, expiry_date, size, voltage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, item := range items {
		_, err := r.q.Exec(context.Background(), query,
			item.ID, item.LotID, item.ProductID, item.Quantity,
			item.ExpiryDate, item.Size, item.Voltage,
		)
		if err != nil {
			return fmt.Errorf("create lot item: %w", err)
		}
	}
	return nil
}

// ListByLot devuelve los ítems del lote ordenados por id.
func (r *LotItemRepo) ListByLot(lotID string) ([]entity.LotItem, error) {
	query := `
		SELECT id, lot_id, product_id, quantity, expiry_date, size, voltage
		FROM lot_items WHERE lot_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list lot items: %w", err)
	}
	defer rows.Close()

	var items []entity.LotItem
	for rows.Next() {
		var item entity.LotItem
		if err := rows.Scan(
			&item.ID, &item.LotID, &item.ProductID, &item.Quantity,
			&item.ExpiryDate, &item.Size, &item.Voltage,
		); err != nil {
			return nil, fmt.Errorf("scan lot item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lot items: %w", err)
	}
	return items, nil
}

// SaveQuantity persiste la cantidad del ítem.
func (r *LotItemRepo) SaveQuantity(item *entity.LotItem) error {
	query := `UPDATE lot_items SET quantity = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.Quantity)
	if err != nil {
		return fmt.Errorf("save lot item quantity: %w", err)
	}
	return nil
}

// DeleteByLot elimina los ítems del lote (borrado explícito, sin cascada).
func (r *LotItemRepo) DeleteByLot(lotID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lot_items WHERE lot_id = $1`, lotID)
	if err != nil {
		return fmt.Errorf("delete lot items: %w", err)
	}
	return nil
}
