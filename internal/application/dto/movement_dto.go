package dto

import "time"

// MovementRequest body para registrar un movimiento sobre un lote.
// UserID es opcional: si viene vacío se usa el usuario autenticado.
type MovementRequest struct {
	LotID    string `json:"lot_id"`
	UserID   string `json:"user_id,omitempty"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// MovementResponse movimiento en respuestas.
type MovementResponse struct {
	ID        string    `json:"id"`
	LotID     string    `json:"lot_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// MovementDetailsResponse movimiento con la cantidad del lote antes y
// después, reconstruida desde el libro.
type MovementDetailsResponse struct {
	MovementResponse
	QuantityBefore int `json:"quantity_before"`
	QuantityAfter  int `json:"quantity_after"`
}

// ProductExitRequest body de una salida por distribución a nivel producto
// (el consumo FIFO decide de qué lotes sale).
type ProductExitRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// KitAssemblyRequest body para armar kits.
type KitAssemblyRequest struct {
	KitProductID string `json:"kit_product_id"`
	Quantity     int    `json:"quantity"`
}

// KitAssemblyResponse resultado del armado: el lote creado para el kit y su
// movimiento de entrada.
type KitAssemblyResponse struct {
	Lot      LotResponse      `json:"lot"`
	Movement MovementResponse `json:"movement"`
}
