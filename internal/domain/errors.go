package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrBusinessRule       = errors.New("regla de negocio violada")

	// ErrLotHasMovements: un lote con movimientos registrados es inmutable
	// (el historial de distribución nunca se reescribe).
	ErrLotHasMovements = errors.New("el lote tiene movimientos registrados")
)

// InsufficientStockError detalla un fallo de stock: sobre un lote concreto
// (mutación que dejaría la cantidad negativa) o sobre un producto (el motor
// FIFO agotó los lotes elegibles). Unwrap devuelve ErrInsufficientStock para
// que los callers puedan usar errors.Is sin conocer el detalle.
type InsufficientStockError struct {
	LotID     string // lote afectado (mutación directa)
	ProductID string // producto afectado (consumo FIFO)
	Available int    // cantidad disponible en el lote al momento del rechazo
	Shortfall int    // unidades que faltaron tras agotar todos los lotes
}

func (e *InsufficientStockError) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("stock insuficiente para el producto %s: faltan %d unidades", e.ProductID, e.Shortfall)
	}
	return fmt.Sprintf("stock insuficiente en el lote %s: disponible %d", e.LotID, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
