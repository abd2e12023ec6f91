package dto

import "time"

// BOMLineRequest línea de receta de un kit.
type BOMLineRequest struct {
	ComponentID string `json:"component_id"`
	Quantity    int    `json:"quantity"`
}

// ProductRequest body para crear/actualizar un producto.
type ProductRequest struct {
	Name                string           `json:"name"`
	Description         string           `json:"description,omitempty"`
	ManufacturerBarcode string           `json:"manufacturer_barcode,omitempty"`
	CategoryID          string           `json:"category_id"`
	IsKit               bool             `json:"is_kit"`
	Components          []BOMLineRequest `json:"components,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Description         string           `json:"description,omitempty"`
	ManufacturerBarcode string           `json:"manufacturer_barcode,omitempty"`
	CategoryID          string           `json:"category_id"`
	IsKit               bool             `json:"is_kit"`
	Components          []BOMLineRequest `json:"components,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// CategoryRequest body para crear/actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse categoría en respuestas.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
