// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria, como respaldo de los tests de los casos de uso. Reproduce la
// semántica de bloqueo por lote de la implementación SQL: GetByIDForUpdate
// adquiere un mutex exclusivo del lote que se libera al terminar el
// callback del TxRunner.
package memory

import (
	"context"
	"sync"

	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	lots      map[string]*entity.Lot     // sin ítems; los ítems viven aparte
	items     map[string]*entity.LotItem // por id de ítem
	movements []*entity.Movement         // orden de inserción = orden del libro

	products   map[string]*entity.Product
	categories map[string]*entity.Category
	users      map[string]*entity.User
	refresh    map[string]*entity.RefreshToken

	lockMu   sync.Mutex
	lotLocks map[string]*sync.Mutex
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		lots:       make(map[string]*entity.Lot),
		items:      make(map[string]*entity.LotItem),
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		users:      make(map[string]*entity.User),
		refresh:    make(map[string]*entity.RefreshToken),
		lotLocks:   make(map[string]*sync.Mutex),
	}
}

// lotLock devuelve el mutex del lote, creándolo si no existe.
func (s *Store) lotLock(lotID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	m, ok := s.lotLocks[lotID]
	if !ok {
		m = &sync.Mutex{}
		s.lotLocks[lotID] = m
	}
	return m
}

// session acumula los bloqueos de lote adquiridos dentro de un TxRunner.Run
// y los libera todos al terminar (análogo al commit/rollback de una tx SQL).
type session struct {
	store *Store
	held  map[string]*sync.Mutex
}

func newSession(store *Store) *session {
	return &session{store: store, held: make(map[string]*sync.Mutex)}
}

// lockLot adquiere el mutex del lote si la sesión no lo tiene ya.
func (s *session) lockLot(lotID string) {
	if _, ok := s.held[lotID]; ok {
		return
	}
	m := s.store.lotLock(lotID)
	m.Lock()
	s.held[lotID] = m
}

func (s *session) releaseAll() {
	for _, m := range s.held {
		m.Unlock()
	}
	s.held = make(map[string]*sync.Mutex)
}

// TxRunner ejecuta el callback con repositorios atados a una sesión.
// No ofrece rollback de datos (los escritos ya quedaron aplicados); sí
// garantiza que los bloqueos por lote se sostienen durante todo el callback
// y se liberan al salir.
type TxRunner struct {
	store *Store
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos de la sesión y libera los bloqueos al terminar.
func (r *TxRunner) Run(_ context.Context, fn func(
	lotRepo repository.LotRepository,
	itemRepo repository.LotItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	sess := newSession(r.store)
	defer sess.releaseAll()
	return fn(
		&LotRepo{store: r.store, sess: sess},
		&LotItemRepo{store: r.store},
		&MovementRepo{store: r.store},
	)
}
