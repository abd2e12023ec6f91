package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMovementType(t *testing.T) {
	for _, mt := range []string{MovementTypeEntry, MovementTypeExit, MovementTypeAdjustGain, MovementTypeAdjustLoss} {
		assert.True(t, ValidMovementType(mt), "el tipo %s es válido", mt)
	}
	assert.False(t, ValidMovementType("TRASPASO"))
	assert.False(t, ValidMovementType(""))
}

func TestSignedDelta(t *testing.T) {
	assert.Equal(t, 7, SignedDelta(MovementTypeEntry, 7), "la entrada suma")
	assert.Equal(t, 7, SignedDelta(MovementTypeAdjustGain, 7), "el ajuste a favor suma")
	assert.Equal(t, -7, SignedDelta(MovementTypeExit, 7), "la salida resta")
	assert.Equal(t, -7, SignedDelta(MovementTypeAdjustLoss, 7), "el ajuste en contra resta")
	assert.Zero(t, SignedDelta("TRASPASO", 7), "un tipo desconocido no mueve nada")
}

func TestQuantityBefore(t *testing.T) {
	salida := &Movement{Type: MovementTypeExit, Quantity: 4}
	assert.Equal(t, 10, salida.QuantityBefore(6), "antes de la salida había más")

	entrada := &Movement{Type: MovementTypeEntry, Quantity: 10}
	assert.Equal(t, 0, entrada.QuantityBefore(10), "el lote nace en cero antes de su entrada")
}
