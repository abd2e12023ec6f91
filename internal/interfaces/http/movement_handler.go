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

// MovementHandler maneja el libro de movimientos, las salidas por producto
// y el armado de kits (protegido).
type MovementHandler struct {
	movements *inventory.MovementUseCase
	kits      *inventory.KitUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(movements *inventory.MovementUseCase, kits *inventory.KitUseCase) *MovementHandler {
	return &MovementHandler{movements: movements, kits: kits}
}

// Create godoc
// @Summary      Registrar movimiento sobre un lote
// @Description  ENTRY y ADJUST_GAIN suman; EXIT y ADJUST_LOSS restan. La cantidad nunca queda negativa.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "lot_id, type, quantity, user_id (opcional)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.movements.Create(c.Context(), in, GetUserEmail(c))
	if err != nil {
		return respondMovementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movement)
}

// RegisterProductExit godoc
// @Summary      Salida por distribución a nivel producto (FIFO)
// @Description  Descuenta de los lotes más antiguos primero y asienta un EXIT por cada lote tocado.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductExitRequest  true  "product_id y quantity"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/product-exit [post]
func (h *MovementHandler) RegisterProductExit(c *fiber.Ctx) error {
	var in dto.ProductExitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movements, err := h.movements.RegisterProductExit(c.Context(), in, GetUserEmail(c))
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			// Parcial: lo consumido quedó asentado; se informa junto con el faltante.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":     dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()},
				"movements": movements,
			})
		}
		return respondMovementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movements)
}

// AssembleKit godoc
// @Summary      Armar kits consumiendo componentes (FIFO)
// @Description  Consume la receta del kit de los lotes más antiguos y crea un lote nuevo con los kits armados.
// @Tags         kits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.KitAssemblyRequest  true  "kit_product_id y quantity"
// @Success      201   {object}  dto.KitAssemblyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/kits/assemble [post]
func (h *MovementHandler) AssembleKit(c *fiber.Ctx) error {
	var in dto.KitAssemblyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.kits.Assemble(c.Context(), in, GetUserEmail(c))
	if err != nil {
		if errors.Is(err, domain.ErrBusinessRule) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_A_KIT", Message: err.Error()})
		}
		return respondMovementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// List godoc
// @Summary      Listar movimientos del libro
// @Description  Filtros: type, lot_id, user_id, from, to (RFC3339). Más reciente primero.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		Type:   c.Query("type"),
		LotID:  c.Query("lot_id"),
		UserID: c.Query("user_id"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if from, err := parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido"})
	} else if from != nil {
		filter.From = from
	}
	if to, err := parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido"})
	} else if to != nil {
		// Límite superior inclusivo hasta fin de día cuando viene como fecha.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	movements, err := h.movements.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}

// GetDetails godoc
// @Summary      Obtener movimiento con cantidad antes/después
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetDetails(c *fiber.Ctx) error {
	movement, err := h.movements.GetDetails(c.Context(), c.Params("id"))
	if err != nil {
		return respondMovementError(c, err)
	}
	return c.JSON(movement)
}

// ListByLot godoc
// @Summary      Historial de movimientos de un lote
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/lots/{id}/movements [get]
func (h *MovementHandler) ListByLot(c *fiber.Ctx) error {
	movements, err := h.movements.ListByLot(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}

func respondMovementError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
