package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/application/inventory"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
)

// LotHandler maneja el ciclo de vida de lotes (protegido).
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar un lote de donación
// @Description  Crea el lote con sus ítems y asienta el movimiento ENTRY inicial.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LotRequest  true  "items, entry_date, unit_measure, observations"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.LotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.uc.Create(c.Context(), in, GetUserEmail(c))
	if err != nil {
		return respondLotError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}

// List godoc
// @Summary      Listar lotes
// @Description  Filtros: product_id, with_stock, search (en observaciones), entry_from, entry_to (RFC3339).
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.LotFilter{
		ProductID: c.Query("product_id"),
		Search:    c.Query("search"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	if raw := c.Query("with_stock"); raw != "" {
		withStock := raw == "true" || raw == "1"
		filter.WithStock = &withStock
	}
	if from, err := parseTimeQuery(c, "entry_from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "entry_from inválido"})
	} else if from != nil {
		filter.EntryFrom = from
	}
	if to, err := parseTimeQuery(c, "entry_to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "entry_to inválido"})
	} else if to != nil {
		filter.EntryTo = to
	}

	lots, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(lots)
}

// ListWithStock godoc
// @Summary      Listar lotes con stock disponible
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots/with-stock [get]
func (h *LotHandler) ListWithStock(c *fiber.Ctx) error {
	lots, err := h.uc.ListWithStock(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(lots)
}

// ListNearExpiry godoc
// @Summary      Listar lotes con ítems próximos a vencer
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "ventana en días (default 30)"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots/near-expiry [get]
func (h *LotHandler) ListNearExpiry(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "days debe ser positivo"})
	}
	lots, err := h.uc.ListNearExpiry(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(lots)
}

// GetByID godoc
// @Summary      Obtener lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	lot, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondLotError(c, err)
	}
	return c.JSON(lot)
}

// GetDetails godoc
// @Summary      Obtener lote con el total de movimientos
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/details [get]
func (h *LotHandler) GetDetails(c *fiber.Ctx) error {
	lot, err := h.uc.GetDetails(c.Context(), c.Params("id"))
	if err != nil {
		return respondLotError(c, err)
	}
	return c.JSON(lot)
}

// Update godoc
// @Summary      Actualizar lote (solo si no tiene movimientos)
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "ID del lote"
// @Param        body  body  dto.LotRequest  true  "campos a reemplazar"
// @Success      200   {object}  dto.LotResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [put]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	var in dto.LotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondLotError(c, err)
	}
	return c.JSON(lot)
}

// Delete godoc
// @Summary      Eliminar lote (solo si no tiene movimientos)
// @Tags         lots
// @Security     Bearer
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [delete]
func (h *LotHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondLotError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func respondLotError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote o producto no encontrado"})
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
	}
	if errors.Is(err, domain.ErrLotHasMovements) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_HAS_MOVEMENTS", Message: "el lote ya tiene movimientos registrados"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// parseTimeQuery parsea un query param de fecha en RFC3339 o "2006-01-02".
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
