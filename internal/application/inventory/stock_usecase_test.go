package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mutador de cantidad (ApplyDelta)
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyDelta_SumaYResta(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	require.NoError(t, f.stock.ApplyDelta(context.Background(), "lote-a", 5),
		"un delta positivo debe aplicarse")
	assert.Equal(t, 15, f.currentQuantity(t, "lote-a"))

	require.NoError(t, f.stock.ApplyDelta(context.Background(), "lote-a", -15),
		"un delta que deja exactamente cero debe aplicarse")
	assert.Equal(t, 0, f.currentQuantity(t, "lote-a"), "la cantidad puede llegar a cero")
}

func TestApplyDelta_RechazaCantidadNegativa(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 3, aDate(1))

	err := f.stock.ApplyDelta(context.Background(), "lote-a", -4)
	require.Error(t, err, "un delta que deja la cantidad negativa debe rechazarse")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "lote-a", stockErr.LotID)
	assert.Equal(t, 3, stockErr.Available, "el error debe informar la cantidad disponible")

	assert.Equal(t, 3, f.currentQuantity(t, "lote-a"),
		"un rechazo no debe modificar la cantidad (nunca se recorta a cero)")
}

func TestApplyDelta_LoteInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.stock.ApplyDelta(context.Background(), "lote-fantasma", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos flujos concurrentes sobre el mismo lote deben serializarse: ninguna
// mutación puede perderse por lectura obsoleta.
func TestApplyDelta_ConcurrenciaSobreElMismoLote(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 100, aDate(1))

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// -5 por worker: 100 - 20*5 = 0 solo si nada se pisa.
			_ = f.stock.ApplyDelta(context.Background(), "lote-a", -5)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, f.currentQuantity(t, "lote-a"),
		"las 20 mutaciones de -5 deben aplicarse todas, sin lecturas obsoletas")
}

func TestApplyDelta_ConcurrenciaNuncaBajaDeCero(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	// 8 retiros de 3 contra 10 disponibles: solo 3 pueden tener éxito.
	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.stock.ApplyDelta(context.Background(), "lote-a", -3)
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 3, ok, "con 10 unidades solo caben 3 retiros de 3")
	assert.Equal(t, 1, f.currentQuantity(t, "lote-a"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo FIFO por producto
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumeByProduct_AgotaPrimeroElLoteMasAntiguo(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-viejo", "prod-arroz", 10, aDate(1))
	f.seedLot(t, "lote-nuevo", "prod-arroz", 10, aDate(5))

	consumed, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 15, f.actor.ID)
	require.NoError(t, err)

	require.Len(t, consumed, 2, "deben tocarse dos lotes")
	assert.Equal(t, "lote-viejo", consumed[0].LotID,
		"el lote más antiguo se agota por completo primero")
	assert.Equal(t, 10, consumed[0].Quantity)
	assert.Equal(t, "lote-nuevo", consumed[1].LotID, "el resto sale del lote siguiente")
	assert.Equal(t, 5, consumed[1].Quantity)

	assert.Equal(t, 0, f.currentQuantity(t, "lote-viejo"))
	assert.Equal(t, 5, f.currentQuantity(t, "lote-nuevo"),
		"el consumo parcial conserva el remanente en el lote")

	// Cada descuento quedó asentado como EXIT en la misma transacción.
	for _, c := range consumed {
		require.NotNil(t, c.Movement)
		assert.Equal(t, entity.MovementTypeExit, c.Movement.Type)
		assert.Equal(t, c.Quantity, c.Movement.Quantity)
		assert.Equal(t, f.actor.ID, c.Movement.UserID)

		count, err := f.movRepo.CountByLot(c.LotID)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "la salida del lote %s está en el libro", c.LotID)
	}
}

func TestConsumeByProduct_DesempataPorIDAscendente(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	// Misma fecha de entrada: el orden lo decide el id.
	f.seedLot(t, "lote-b", "prod-arroz", 5, aDate(1))
	f.seedLot(t, "lote-a", "prod-arroz", 5, aDate(1))

	consumed, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 6, f.actor.ID)
	require.NoError(t, err)

	require.Len(t, consumed, 2)
	assert.Equal(t, "lote-a", consumed[0].LotID, "a igual fecha gana el id menor")
	assert.Equal(t, "lote-b", consumed[1].LotID)
}

func TestConsumeByProduct_FaltanteDevuelveErrorYConservaLoAplicado(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 4, aDate(1))
	f.seedLot(t, "lote-b", "prod-arroz", 3, aDate(2))

	consumed, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 10, f.actor.ID)
	require.Error(t, err, "agotar todos los lotes sin cubrir lo pedido es un error")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "prod-arroz", stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Shortfall, "faltan 10-7=3 unidades")

	// Lo ya consumido queda aplicado: el consumo multi-lote no es atómico.
	require.Len(t, consumed, 2)
	assert.Equal(t, 0, f.currentQuantity(t, "lote-a"))
	assert.Equal(t, 0, f.currentQuantity(t, "lote-b"))
}

func TestConsumeByProduct_SinLotesElegibles(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")

	consumed, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 5, f.actor.ID)
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Shortfall, "sin lotes, falta todo lo pedido")
	assert.Empty(t, consumed)
}

func TestConsumeByProduct_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	for _, quantity := range []int{0, -1} {
		_, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", quantity, f.actor.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d debe rechazarse", quantity)
	}
}

// Un lote mixto solo aporta el ítem del producto pedido: los demás ítems y
// su porción de la cantidad del lote no se tocan.
func TestConsumeByProduct_LoteMixtoResuelveElItemCorrecto(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedProduct(t, "prod-frazada", "Frazada")

	// Lote con dos ítems: 6 de arroz y 4 de frazadas (cantidad total 10).
	lot := &entity.Lot{
		ID:              "lote-mixto",
		EntryDate:       aDate(1),
		InitialQuantity: 10,
		CurrentQuantity: 10,
		UnitMeasure:     entity.UnitUnidad,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, f.lotRepo.Create(lot))
	require.NoError(t, f.itemRepo.CreateMany([]entity.LotItem{
		{ID: "item-arroz", LotID: "lote-mixto", ProductID: "prod-arroz", Quantity: 6},
		{ID: "item-frazada", LotID: "lote-mixto", ProductID: "prod-frazada", Quantity: 4},
	}))

	consumed, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 4, f.actor.ID)
	require.NoError(t, err)
	require.Len(t, consumed, 1)

	assert.Equal(t, 2, f.itemQuantity(t, "lote-mixto", "prod-arroz"),
		"el ítem del producto consumido baja")
	assert.Equal(t, 4, f.itemQuantity(t, "lote-mixto", "prod-frazada"),
		"el ítem del otro producto no se toca")
	assert.Equal(t, 6, f.currentQuantity(t, "lote-mixto"),
		"la cantidad del lote baja junto con el ítem")
}

func TestConsumeByProduct_IgnoraLotesConItemEnCero(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-vacio", "prod-arroz", 5, aDate(1))
	f.seedLot(t, "lote-lleno", "prod-arroz", 5, aDate(2))

	// Agotar el lote más antiguo primero.
	_, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 5, f.actor.ID)
	require.NoError(t, err)

	consumed, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 2, f.actor.ID)
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.Equal(t, "lote-lleno", consumed[0].LotID,
		"un lote con el ítem en cero no es candidato")
}

// Si el asiento en el libro falla, el descuento de ese lote tampoco queda:
// ambos efectos van en la misma transacción.
func TestConsumeByProduct_AsientoFallidoNoDescuenta(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	tx := &txRunnerLibroRoto{inner: memory.NewTxRunner(f.store)}
	stock := inventory.NewStockUseCase(tx, f.lotRepo)

	consumed, err := stock.ConsumeByProduct(context.Background(), "prod-arroz", 4, f.actor.ID)
	require.ErrorIs(t, err, errLibroRoto)
	assert.Empty(t, consumed, "sin asiento no hay descuento que reportar")

	assert.Equal(t, 10, f.currentQuantity(t, "lote-a"),
		"la cantidad del lote no cambia si la salida no pudo asentarse")
	assert.Equal(t, 10, f.itemQuantity(t, "lote-a", "prod-arroz"))

	count, err := f.movRepo.CountByLot("lote-a")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConsumeByProduct_ConsumosConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	const workers = 5
	type result struct {
		consumed []inventory.Consumption
		err      error
	}
	results := make(chan result, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := f.stock.ConsumeByProduct(context.Background(), "prod-arroz", 4, f.actor.ID)
			results <- result{consumed: c, err: err}
		}()
	}
	wg.Wait()
	close(results)

	totalTaken := 0
	for r := range results {
		for _, c := range r.consumed {
			totalTaken += c.Quantity
		}
		if r.err != nil && !errors.Is(r.err, domain.ErrInsufficientStock) {
			t.Fatalf("error inesperado: %v", r.err)
		}
	}
	assert.Equal(t, 10, totalTaken, "entre todos los consumos se reparte exactamente el stock")
	assert.Equal(t, 0, f.currentQuantity(t, "lote-a"))
}
