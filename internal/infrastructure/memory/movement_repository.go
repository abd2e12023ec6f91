package memory

import (
	"sort"

	"github.com/google/uuid"

	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// MovementRepo implementación en memoria del libro de movimientos.
// Solo agrega: el slice subyacente conserva el orden de asiento.
type MovementRepo struct {
	store *Store
}

var _ repository.MovementRepository = (*MovementRepo)(nil)

// NewMovementRepo crea el repositorio de movimientos.
func NewMovementRepo(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

func (r *MovementRepo) Create(movement *entity.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	dup := *movement
	r.store.movements = append(r.store.movements, &dup)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			dup := *m
			return &dup, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) ListByLot(lotID string) ([]*entity.Movement, error) {
	return r.List(repository.MovementFilter{LotID: lotID})
}

func (r *MovementRepo) ListByUser(userID string) ([]*entity.Movement, error) {
	return r.List(repository.MovementFilter{UserID: userID})
}

// List filtra y devuelve más reciente primero; a igual instante, el asentado
// después va primero.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	type seqMovement struct {
		seq int
		m   *entity.Movement
	}
	var matched []seqMovement
	for i, m := range r.store.movements {
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.LotID != "" && m.LotID != filter.LotID {
			continue
		}
		if filter.UserID != "" && m.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && m.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Timestamp.After(*filter.To) {
			continue
		}
		dup := *m
		matched = append(matched, seqMovement{seq: i, m: &dup})
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].m.Timestamp.Equal(matched[j].m.Timestamp) {
			return matched[i].m.Timestamp.After(matched[j].m.Timestamp)
		}
		return matched[i].seq > matched[j].seq
	})

	out := make([]*entity.Movement, 0, len(matched))
	for _, sm := range matched {
		out = append(out, sm.m)
	}
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

func (r *MovementRepo) CountByLot(lotID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, m := range r.store.movements {
		if m.LotID == lotID {
			count++
		}
	}
	return count, nil
}
