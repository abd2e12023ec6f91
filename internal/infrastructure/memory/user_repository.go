package memory

import (
	"sort"
	"strings"

	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	store *Store
}

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo crea el repositorio de usuarios.
func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	dup := *user
	r.store.users[user.ID] = &dup
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	dup := *stored
	return &dup, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			dup := *u
			return &dup, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return nil
	}
	dup := *user
	r.store.users[user.ID] = &dup
	return nil
}

func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.store.users {
		dup := *u
		out = append(out, &dup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

// RefreshTokenRepo implementación en memoria de RefreshTokenRepository.
type RefreshTokenRepo struct {
	store *Store
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

// NewRefreshTokenRepo crea el repositorio de tokens de refresco.
func NewRefreshTokenRepo(store *Store) *RefreshTokenRepo {
	return &RefreshTokenRepo{store: store}
}

func (r *RefreshTokenRepo) Create(token *entity.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	dup := *token
	r.store.refresh[token.ID] = &dup
	return nil
}

func (r *RefreshTokenRepo) GetByToken(token string) (*entity.RefreshToken, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, t := range r.store.refresh {
		if t.Token == token {
			dup := *t
			return &dup, nil
		}
	}
	return nil, nil
}

func (r *RefreshTokenRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.refresh, id)
	return nil
}

func (r *RefreshTokenRepo) DeleteByUser(userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, t := range r.store.refresh {
		if t.UserID == userID {
			delete(r.store.refresh, id)
		}
	}
	return nil
}
