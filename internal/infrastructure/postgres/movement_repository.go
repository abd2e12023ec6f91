package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo inserta y lee: la tabla movements no recibe UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create asienta un movimiento.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, lot_id, user_id, type, quantity, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.LotID, movement.UserID,
		movement.Type, movement.Quantity, movement.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID, o nil si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT id, lot_id, user_id, type, quantity, registered_at
		FROM movements WHERE id = $1`
	var m entity.Movement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.LotID, &m.UserID, &m.Type, &m.Quantity, &m.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListByLot devuelve los movimientos del lote, más reciente primero.
func (r *MovementRepo) ListByLot(lotID string) ([]*entity.Movement, error) {
	return r.List(repository.MovementFilter{LotID: lotID})
}

// ListByUser devuelve los movimientos asentados por el usuario.
func (r *MovementRepo) ListByUser(userID string) ([]*entity.Movement, error) {
	return r.List(repository.MovementFilter{UserID: userID})
}

// List filtra el libro, más reciente primero.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, lot_id, user_id, type, quantity, registered_at
		FROM movements`
	var args []any
	var where []string

	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, `type = $`+strconv.Itoa(len(args)))
	}
	if filter.LotID != "" {
		args = append(args, filter.LotID)
		where = append(where, `lot_id = $`+strconv.Itoa(len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, `user_id = $`+strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, `registered_at >= $`+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, `registered_at <= $`+strconv.Itoa(len(args)))
	}
	for i, w := range where {
		if i == 0 {
			query += ` WHERE ` + w
		} else {
			query += ` AND ` + w
		}
	}
	query += ` ORDER BY registered_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.LotID, &m.UserID, &m.Type, &m.Quantity, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return movements, nil
}

// CountByLot cuenta los movimientos del lote (decide si el lote es editable).
func (r *MovementRepo) CountByLot(lotID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE lot_id = $1`, lotID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return count, nil
}
