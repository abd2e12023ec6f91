package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Libro de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementCreate_SalidaDescuentaYAsienta(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	out, err := f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     entity.MovementTypeExit,
		Quantity: 4,
	}, testActorEmail)
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, entity.MovementTypeExit, out.Type)
	assert.Equal(t, 4, out.Quantity, "la cantidad se guarda siempre positiva")
	assert.Equal(t, f.actor.ID, out.UserID)
	assert.Equal(t, 6, f.currentQuantity(t, "lote-a"))
}

func TestMovementCreate_AjustesEnAmbosSentidos(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	_, err := f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     entity.MovementTypeAdjustGain,
		Quantity: 3,
	}, testActorEmail)
	require.NoError(t, err)
	assert.Equal(t, 13, f.currentQuantity(t, "lote-a"), "el ajuste a favor suma")

	_, err = f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     entity.MovementTypeAdjustLoss,
		Quantity: 5,
	}, testActorEmail)
	require.NoError(t, err)
	assert.Equal(t, 8, f.currentQuantity(t, "lote-a"), "el ajuste en contra resta")
}

func TestMovementCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	_, err := f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     "TRASPASO",
		Quantity: 1,
	}, testActorEmail)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     entity.MovementTypeExit,
		Quantity: 0,
	}, testActorEmail)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva")

	_, err = f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "no-existe",
		Type:     entity.MovementTypeExit,
		Quantity: 1,
	}, testActorEmail)
	assert.ErrorIs(t, err, domain.ErrNotFound, "lote inexistente")
}

func TestMovementCreate_SalidaMayorAlStockNoAsienta(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 3, aDate(1))

	_, err := f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     entity.MovementTypeExit,
		Quantity: 5,
	}, testActorEmail)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, f.currentQuantity(t, "lote-a"), "la cantidad no cambia")

	count, err := f.movRepo.CountByLot("lote-a")
	require.NoError(t, err)
	assert.Zero(t, count, "un movimiento rechazado no entra al libro")
}

// Mutación y asiento van en la misma transacción: si el libro rechaza el
// asiento, la cantidad del lote queda como estaba.
func TestMovementCreate_AsientoFallidoNoMutaElLote(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	tx := &txRunnerLibroRoto{inner: memory.NewTxRunner(f.store)}
	stock := inventory.NewStockUseCase(tx, f.lotRepo)
	movements := inventory.NewMovementUseCase(stock, f.movRepo, f.lotRepo, f.userRepo)

	_, err := movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     entity.MovementTypeExit,
		Quantity: 4,
	}, testActorEmail)
	require.ErrorIs(t, err, errLibroRoto)

	assert.Equal(t, 10, f.currentQuantity(t, "lote-a"),
		"la cantidad no cambia si el asiento falló")

	count, err := f.movRepo.CountByLot("lote-a")
	require.NoError(t, err)
	assert.Zero(t, count, "el libro tampoco tiene asientos a medias")
}

func TestMovementGetDetails_ReconstruyeAntesYDespues(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	out, err := f.movements.Create(context.Background(), dto.MovementRequest{
		LotID:    "lote-a",
		Type:     entity.MovementTypeExit,
		Quantity: 4,
	}, testActorEmail)
	require.NoError(t, err)

	details, err := f.movements.GetDetails(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, details.QuantityBefore)
	assert.Equal(t, 6, details.QuantityAfter)
}

func TestMovementListByLot_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 10, aDate(1))

	for _, qty := range []int{1, 2, 3} {
		_, err := f.movements.Create(context.Background(), dto.MovementRequest{
			LotID:    "lote-a",
			Type:     entity.MovementTypeExit,
			Quantity: qty,
		}, testActorEmail)
		require.NoError(t, err)
	}

	movements, err := f.movements.ListByLot(context.Background(), "lote-a")
	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.Equal(t, 3, movements[0].Quantity, "el último registrado aparece primero")
	assert.Equal(t, 1, movements[2].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salida por distribución a nivel producto
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterProductExit_AsientaUnaSalidaPorLote(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-viejo", "prod-arroz", 6, aDate(1))
	f.seedLot(t, "lote-nuevo", "prod-arroz", 6, aDate(5))

	movements, err := f.movements.RegisterProductExit(context.Background(), dto.ProductExitRequest{
		ProductID: "prod-arroz",
		Quantity:  9,
	}, testActorEmail)
	require.NoError(t, err)
	require.Len(t, movements, 2, "una salida por cada lote descontado")

	assert.Equal(t, "lote-viejo", movements[0].LotID)
	assert.Equal(t, 6, movements[0].Quantity)
	assert.Equal(t, "lote-nuevo", movements[1].LotID)
	assert.Equal(t, 3, movements[1].Quantity)

	assert.Equal(t, 0, f.currentQuantity(t, "lote-viejo"))
	assert.Equal(t, 3, f.currentQuantity(t, "lote-nuevo"))
}

func TestRegisterProductExit_FaltanteDevuelveLoAsentado(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "prod-arroz", "Arroz 1kg")
	f.seedLot(t, "lote-a", "prod-arroz", 4, aDate(1))

	movements, err := f.movements.RegisterProductExit(context.Background(), dto.ProductExitRequest{
		ProductID: "prod-arroz",
		Quantity:  10,
	}, testActorEmail)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Shortfall)

	require.Len(t, movements, 1, "lo descontado antes del faltante queda asentado")
	assert.Equal(t, 4, movements[0].Quantity)
	assert.Equal(t, 0, f.currentQuantity(t, "lote-a"))

	count, err := f.movRepo.CountByLot("lote-a")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "el libro refleja el consumo parcial")
}

func TestRegisterProductExit_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.movements.RegisterProductExit(context.Background(), dto.ProductExitRequest{
		ProductID: "prod-arroz",
		Quantity:  0,
	}, testActorEmail)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
