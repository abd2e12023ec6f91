package entity

import "time"

// Product representa un producto donable (arroz, frazada, kit escolar...).
// Si IsKit es true, Components define la receta (BOM) para armarlo
// consumiendo stock de otros productos.
type Product struct {
	ID                  string
	Name                string
	Description         string
	ManufacturerBarcode string // código de barras de fábrica, si el producto lo trae
	CategoryID          string
	IsKit               bool
	Components          []BOMLine
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BOMLine es una línea de la receta de un kit: cuántas unidades del
// componente hacen falta para armar 1 unidad del kit.
type BOMLine struct {
	ComponentID string
	Quantity    int
}
