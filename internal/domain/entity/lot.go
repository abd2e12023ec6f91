package entity

import "time"

// Unidades de medida válidas para un lote.
const (
	UnitUnidad = "UNIDAD"
	UnitKg     = "KG"
	UnitLitro  = "LITRO"
	UnitCaja   = "CAJA"
	UnitPar    = "PAR"
)

// ValidUnit indica si la unidad de medida es una de las conocidas.
func ValidUnit(u string) bool {
	switch u {
	case UnitUnidad, UnitKg, UnitLitro, UnitCaja, UnitPar:
		return true
	}
	return false
}

// Lot representa un lote de donación: un batch físico recibido de una vez,
// con una cantidad restante que solo cambia vía movimientos.
// Invariante: 0 <= CurrentQuantity <= InitialQuantity.
type Lot struct {
	ID              string
	EntryDate       time.Time // fecha de entrada (solo fecha, sin hora)
	InitialQuantity int
	CurrentQuantity int
	UnitMeasure     string // UNIDAD, KG, LITRO, CAJA, PAR
	Observations    string
	Items           []LotItem
	CreatedAt       time.Time
}

// HasStock indica si el lote conserva unidades disponibles.
func (l *Lot) HasStock() bool { return l.CurrentQuantity > 0 }

// ItemForProduct devuelve el ítem del lote que referencia al producto dado,
// o nil si el lote no lo contiene. Un lote puede listar ítems de varios
// productos; el consumo debe resolver el ítem correcto por producto.
func (l *Lot) ItemForProduct(productID string) *LotItem {
	for i := range l.Items {
		if l.Items[i].ProductID == productID {
			return &l.Items[i]
		}
	}
	return nil
}

// BarcodeContent devuelve el contenido del código de barras Code128 de la
// etiqueta del lote (formato "L-<id>", el mismo que imprime la hoja de
// etiquetas y que escanea la entrada rápida).
func (l *Lot) BarcodeContent() string {
	if l.ID == "" {
		return ""
	}
	return "L-" + l.ID
}

// LotItem es un producto concreto dentro de un lote, con su porción de la
// cantidad y atributos opcionales (vencimiento, tamaño, voltaje).
type LotItem struct {
	ID         string
	LotID      string
	ProductID  string
	Quantity   int
	ExpiryDate *time.Time
	Size       string
	Voltage    string
}

// ExpiresBefore indica si el ítem tiene fecha de vencimiento anterior al límite.
func (i *LotItem) ExpiresBefore(limit time.Time) bool {
	return i.ExpiryDate != nil && i.ExpiryDate.Before(limit)
}
