package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// LabelData es lo que se imprime en una etiqueta de lote: el contenido del
// código de barras Code128 y el texto legible debajo.
type LabelData struct {
	LotID     string
	Barcode   string // "L-<id>", lo que escanea la entrada rápida
	Summary   string // nombres de productos del lote
	EntryDate string
	Quantity  int
	Unit      string
}

// LabelPDFGenerator genera la hoja de etiquetas. Implementado en
// infrastructure/pdf con Maroto.
type LabelPDFGenerator interface {
	GenerateLabelSheet(ctx context.Context, labels []LabelData) ([]byte, error)
}

// LabelUseCase arma la hoja de etiquetas de uno o varios lotes.
type LabelUseCase struct {
	lotRepo     repository.LotRepository
	productRepo repository.ProductRepository
	generator   LabelPDFGenerator
}

// NewLabelUseCase construye el caso de uso.
func NewLabelUseCase(
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	generator LabelPDFGenerator,
) *LabelUseCase {
	return &LabelUseCase{lotRepo: lotRepo, productRepo: productRepo, generator: generator}
}

// LotLabels genera el PDF con copies etiquetas de un lote (una por caja
// física). Devuelve los bytes y el nombre de archivo sugerido.
func (uc *LabelUseCase) LotLabels(ctx context.Context, lotID string, copies int) ([]byte, string, error) {
	if copies <= 0 {
		copies = 1
	}
	label, err := uc.buildLabel(lotID)
	if err != nil {
		return nil, "", err
	}

	labels := make([]LabelData, 0, copies)
	for i := 0; i < copies; i++ {
		labels = append(labels, *label)
	}
	pdfBytes, err := uc.generator.GenerateLabelSheet(ctx, labels)
	if err != nil {
		return nil, "", fmt.Errorf("etiquetas: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("etiquetas_lote_%s.pdf", lotID), nil
}

// SheetForLots genera una hoja con una etiqueta por lote (impresión en batch
// tras una jornada de recepción).
func (uc *LabelUseCase) SheetForLots(ctx context.Context, lotIDs []string) ([]byte, string, error) {
	if len(lotIDs) == 0 {
		return nil, "", domain.ErrInvalidInput
	}
	labels := make([]LabelData, 0, len(lotIDs))
	for _, id := range lotIDs {
		label, err := uc.buildLabel(id)
		if err != nil {
			return nil, "", err
		}
		labels = append(labels, *label)
	}
	pdfBytes, err := uc.generator.GenerateLabelSheet(ctx, labels)
	if err != nil {
		return nil, "", fmt.Errorf("etiquetas: generación fallida: %w", err)
	}
	return pdfBytes, "etiquetas_lotes.pdf", nil
}

func (uc *LabelUseCase) buildLabel(lotID string) (*LabelData, error) {
	lot, err := uc.lotRepo.GetByID(lotID)
	if err != nil {
		return nil, fmt.Errorf("etiquetas: obtener lote: %w", err)
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}

	var names []string
	for _, item := range lot.Items {
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			names = append(names, "Producto "+item.ProductID)
			continue
		}
		names = append(names, product.Name)
	}

	return &LabelData{
		LotID:     lot.ID,
		Barcode:   lot.BarcodeContent(),
		Summary:   strings.Join(names, ", "),
		EntryDate: lot.EntryDate.Format("02/01/2006"),
		Quantity:  lot.CurrentQuantity,
		Unit:      lot.UnitMeasure,
	}, nil
}
