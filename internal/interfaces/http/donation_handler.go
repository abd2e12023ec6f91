package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/domain"
)

// DonationHandler maneja la entrada rápida de donaciones mixtas (protegido).
type DonationHandler struct {
	uc *inventory.DonationUseCase
}

// NewDonationHandler construye el handler.
func NewDonationHandler(uc *inventory.DonationUseCase) *DonationHandler {
	return &DonationHandler{uc: uc}
}

// QuickEntry godoc
// @Summary      Entrada rápida de una donación mixta
// @Description  Descompone la donación en un lote por ítem, cada uno con su ENTRY.
// @Tags         donations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DonationEntryRequest  true  "items, entry_date, general_observations"
// @Success      201   {array}   dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/donations/quick-entry [post]
func (h *DonationHandler) QuickEntry(c *fiber.Ctx) error {
	var in dto.DonationEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lots, err := h.uc.ProcessMixedEntry(c.Context(), in, GetUserEmail(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(lots)
}
