package entity

import "time"

// Tipos de movimiento del libro de auditoría.
const (
	MovementTypeEntry      = "ENTRY"       // entrada de donación
	MovementTypeExit       = "EXIT"        // salida por distribución
	MovementTypeAdjustGain = "ADJUST_GAIN" // ajuste a favor (conteo físico)
	MovementTypeAdjustLoss = "ADJUST_LOSS" // ajuste en contra (merma, daño)
)

// ValidMovementType indica si el tipo es uno de los cuatro conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustGain, MovementTypeAdjustLoss:
		return true
	}
	return false
}

// Movement es un registro inmutable del libro de movimientos: cada cambio de
// cantidad de un lote deja exactamente una entrada. Quantity siempre es
// positiva; el signo lo determina el tipo (ver SignedDelta).
type Movement struct {
	ID        string
	LotID     string
	UserID    string
	Type      string
	Quantity  int
	Timestamp time.Time
}

// SignedDelta traduce (tipo, cantidad) al delta con signo que se aplica al
// lote: ENTRY y ADJUST_GAIN suman, EXIT y ADJUST_LOSS restan.
func SignedDelta(movementType string, quantity int) int {
	switch movementType {
	case MovementTypeEntry, MovementTypeAdjustGain:
		return quantity
	case MovementTypeExit, MovementTypeAdjustLoss:
		return -quantity
	}
	return 0
}

// QuantityBefore reconstruye la cantidad del lote inmediatamente antes de
// este movimiento a partir de la cantidad actual. Solo es correcto si los
// movimientos del lote se aplicaron en orden y nunca se eliminaron.
func (m *Movement) QuantityBefore(currentQuantity int) int {
	return currentQuantity - SignedDelta(m.Type, m.Quantity)
}
