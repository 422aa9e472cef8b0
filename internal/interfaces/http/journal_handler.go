package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/application/dto"
)

// JournalHandler asientos contables manuales.
type JournalHandler struct {
	uc *accounting.JournalUseCase
}

// NewJournalHandler construye el handler.
func NewJournalHandler(uc *accounting.JournalUseCase) *JournalHandler {
	return &JournalHandler{uc: uc}
}

// Validate godoc
// @Summary      Validar asiento sin registrarlo
// @Tags         journal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PostJournalEntryRequest  true  "Filas"
// @Success      200   {object}  dto.JournalValidationResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/journal-entries/validate [post]
func (h *JournalHandler) Validate(c *fiber.Ctx) error {
	var in dto.PostJournalEntryRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ValidateEntry(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Post godoc
// @Summary      Registrar asiento
// @Tags         journal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PostJournalEntryRequest  true  "Filas"
// @Success      201   {object}  dto.JournalEntryResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/journal-entries [post]
func (h *JournalHandler) Post(c *fiber.Ctx) error {
	var in dto.PostJournalEntryRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.PostEntry(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar asientos
// @Tags         journal
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        source  query  string  false  "manual | invoice | payment"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.JournalEntryResponse
// @Router       /api/journal-entries [get]
func (h *JournalHandler) List(c *fiber.Ctx) error {
	var in dto.ListJournalRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ListEntries(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener asiento con sus filas
// @Tags         journal
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del asiento"
// @Success      200  {object}  dto.JournalEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/journal-entries/{id} [get]
func (h *JournalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetEntry(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
