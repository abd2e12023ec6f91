package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
	"github.com/manosunidas/donaciones-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture compartida: repos en memoria + casos de uso reales
// ──────────────────────────────────────────────────────────────────────────────

const testActorEmail = "voluntario@manosunidas.org"

type fixture struct {
	store *memory.Store

	lotRepo     *memory.LotRepo
	itemRepo    *memory.LotItemRepo
	movRepo     *memory.MovementRepo
	productRepo *memory.ProductRepo
	userRepo    *memory.UserRepo

	stock     *inventory.StockUseCase
	lots      *inventory.LotUseCase
	movements *inventory.MovementUseCase
	kits      *inventory.KitUseCase
	donations *inventory.DonationUseCase

	actor *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	tx := memory.NewTxRunner(store)

	f := &fixture{
		store:       store,
		lotRepo:     memory.NewLotRepo(store),
		itemRepo:    memory.NewLotItemRepo(store),
		movRepo:     memory.NewMovementRepo(store),
		productRepo: memory.NewProductRepo(store),
		userRepo:    memory.NewUserRepo(store),
	}
	f.stock = inventory.NewStockUseCase(tx, f.lotRepo)
	f.lots = inventory.NewLotUseCase(tx, f.lotRepo, f.movRepo, f.productRepo, f.userRepo)
	f.movements = inventory.NewMovementUseCase(f.stock, f.movRepo, f.lotRepo, f.userRepo)
	f.kits = inventory.NewKitUseCase(f.productRepo, f.userRepo, f.movRepo, f.stock, f.lots)
	f.donations = inventory.NewDonationUseCase(f.lots)

	f.actor = &entity.User{
		ID:           "user-1",
		Email:        testActorEmail,
		PasswordHash: "x",
		Name:         "Voluntaria de turno",
		Role:         entity.RoleVoluntario,
		Status:       "active",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, f.userRepo.Create(f.actor), "debe crearse el usuario actor")
	return f
}

// seedProduct da de alta un producto simple del catálogo.
func (f *fixture) seedProduct(t *testing.T, id, name string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:         id,
		Name:       name,
		CategoryID: "cat-1",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, f.productRepo.Create(p), "debe crearse el producto %s", name)
	return p
}

// seedKit da de alta un producto kit con su receta.
func (f *fixture) seedKit(t *testing.T, id, name string, components ...entity.BOMLine) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:         id,
		Name:       name,
		CategoryID: "cat-1",
		IsKit:      true,
		Components: components,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, f.productRepo.Create(p), "debe crearse el kit %s", name)
	return p
}

// seedLot crea un lote con un único ítem del producto, sin pasar por el caso
// de uso (sin movimiento ENTRY), con id y fecha de entrada controlados.
func (f *fixture) seedLot(t *testing.T, lotID, productID string, quantity int, entryDate time.Time) *entity.Lot {
	t.Helper()
	lot := &entity.Lot{
		ID:              lotID,
		EntryDate:       entryDate,
		InitialQuantity: quantity,
		CurrentQuantity: quantity,
		UnitMeasure:     entity.UnitUnidad,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, f.lotRepo.Create(lot), "debe crearse el lote %s", lotID)
	require.NoError(t, f.itemRepo.CreateMany([]entity.LotItem{{
		ID:        "item-" + lotID,
		LotID:     lotID,
		ProductID: productID,
		Quantity:  quantity,
	}}), "deben crearse los ítems del lote %s", lotID)
	return lot
}

// currentQuantity relee la cantidad actual del lote.
func (f *fixture) currentQuantity(t *testing.T, lotID string) int {
	t.Helper()
	lot, err := f.lotRepo.GetByID(lotID)
	require.NoError(t, err)
	require.NotNil(t, lot, "el lote %s debe existir", lotID)
	return lot.CurrentQuantity
}

// itemQuantity relee la cantidad del ítem del producto dentro del lote.
func (f *fixture) itemQuantity(t *testing.T, lotID, productID string) int {
	t.Helper()
	lot, err := f.lotRepo.GetByID(lotID)
	require.NoError(t, err)
	require.NotNil(t, lot)
	item := lot.ItemForProduct(productID)
	require.NotNil(t, item, "el lote %s debe contener el producto %s", lotID, productID)
	return item.Quantity
}

// aDate fecha fija de entrada para los tests FIFO.
func aDate(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

// errLibroRoto simula un libro de movimientos que rechaza asientos.
var errLibroRoto = errors.New("libro de movimientos no disponible")

// txRunnerLibroRoto envuelve un TxRunner real y hace fallar todo asiento de
// movimientos dentro del callback, para verificar que mutación de cantidad y
// asiento van en la misma transacción: si el asiento falla, la cantidad no
// cambia.
type txRunnerLibroRoto struct {
	inner inventory.TxRunner
}

func (r *txRunnerLibroRoto) Run(ctx context.Context, fn func(
	repository.LotRepository,
	repository.LotItemRepository,
	repository.MovementRepository,
) error) error {
	return r.inner.Run(ctx, func(
		lotRepo repository.LotRepository,
		itemRepo repository.LotItemRepository,
		movRepo repository.MovementRepository,
	) error {
		return fn(lotRepo, itemRepo, libroRoto{movRepo})
	})
}

type libroRoto struct {
	repository.MovementRepository
}

func (libroRoto) Create(*entity.Movement) error { return errLibroRoto }
