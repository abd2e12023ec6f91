package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/domain"
)

// LabelHandler sirve las hojas de etiquetas Code128 en PDF (protegido).
type LabelHandler struct {
	uc *inventory.LabelUseCase
}

// NewLabelHandler construye el handler.
func NewLabelHandler(uc *inventory.LabelUseCase) *LabelHandler {
	return &LabelHandler{uc: uc}
}

// LotLabels godoc
// @Summary      Descargar etiquetas de un lote
// @Tags         labels
// @Security     Bearer
// @Produce      application/pdf
// @Param        id      path   string  true   "ID del lote"
// @Param        copies  query  int     false  "cantidad de etiquetas (default 1)"
// @Success      200  {string}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/labels [get]
func (h *LabelHandler) LotLabels(c *fiber.Ctx) error {
	copies := c.QueryInt("copies", 1)
	pdfBytes, filename, err := h.uc.LotLabels(c.Context(), c.Params("id"), copies)
	if err != nil {
		return respondLabelError(c, err)
	}
	return sendPDF(c, pdfBytes, filename)
}

// Sheet godoc
// @Summary      Descargar hoja de etiquetas de varios lotes
// @Tags         labels
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.LabelSheetRequest  true  "lot_ids"
// @Success      200  {string}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/labels/sheet [post]
func (h *LabelHandler) Sheet(c *fiber.Ctx) error {
	var in dto.LabelSheetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pdfBytes, filename, err := h.uc.SheetForLots(c.Context(), in.LotIDs)
	if err != nil {
		return respondLabelError(c, err)
	}
	return sendPDF(c, pdfBytes, filename)
}

func respondLabelError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lista de lotes vacía"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func sendPDF(c *fiber.Ctx, pdfBytes []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
