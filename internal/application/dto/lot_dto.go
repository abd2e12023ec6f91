package dto

import "time"

// LotItemRequest ítem dentro de un lote a crear/actualizar.
type LotItemRequest struct {
	ProductID  string     `json:"product_id"`
	Quantity   int        `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Size       string     `json:"size,omitempty"`
	Voltage    string     `json:"voltage,omitempty"`
}

// LotRequest body para crear o actualizar un lote.
type LotRequest struct {
	Items        []LotItemRequest `json:"items"`
	EntryDate    time.Time        `json:"entry_date"`
	UnitMeasure  string           `json:"unit_measure"`
	Observations string           `json:"observations,omitempty"`
}

// LotItemResponse ítem de un lote en respuestas.
type LotItemResponse struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"product_id"`
	Quantity   int        `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Size       string     `json:"size,omitempty"`
	Voltage    string     `json:"voltage,omitempty"`
}

// LotResponse lote en respuestas.
type LotResponse struct {
	ID              string            `json:"id"`
	EntryDate       time.Time         `json:"entry_date"`
	InitialQuantity int               `json:"initial_quantity"`
	CurrentQuantity int               `json:"current_quantity"`
	UnitMeasure     string            `json:"unit_measure"`
	Observations    string            `json:"observations,omitempty"`
	Barcode         string            `json:"barcode"`
	Items           []LotItemResponse `json:"items"`
}

// LotDetailsResponse lote con el total de movimientos registrados.
type LotDetailsResponse struct {
	LotResponse
	TotalMovements int `json:"total_movements"`
}

// LabelSheetRequest body para imprimir una hoja con etiquetas de varios lotes.
type LabelSheetRequest struct {
	LotIDs []string `json:"lot_ids"`
}

// DonationItemRequest ítem de una entrada rápida de donación mixta.
type DonationItemRequest struct {
	ProductID        string     `json:"product_id"`
	Quantity         int        `json:"quantity"`
	UnitMeasure      string     `json:"unit_measure,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	Size             string     `json:"size,omitempty"`
	Voltage          string     `json:"voltage,omitempty"`
	ItemObservations string     `json:"item_observations,omitempty"`
}

// DonationEntryRequest body de la entrada rápida: una donación mixta que se
// descompone en un lote por ítem.
type DonationEntryRequest struct {
	Items               []DonationItemRequest `json:"items"`
	EntryDate           time.Time             `json:"entry_date"`
	GeneralObservations string                `json:"general_observations,omitempty"`
}
