package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/dto"
)

// DocumentHandler órdenes de venta y compra, y su facturación.
type DocumentHandler struct {
	docs     *billing.DocumentUseCase
	invoices *billing.InvoiceUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(docs *billing.DocumentUseCase, invoices *billing.InvoiceUseCase) *DocumentHandler {
	return &DocumentHandler{docs: docs, invoices: invoices}
}

// Create godoc
// @Summary      Crear documento en borrador
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateDocumentRequest  true  "Documento con líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.docs.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.docs.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar línea
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID del documento"
// @Param        body  body      dto.DocumentItemRequest  true  "Línea"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/items [post]
func (h *DocumentHandler) AddItem(c *fiber.Ctx) error {
	var in dto.DocumentItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.docs.AddItem(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Reemplazar línea
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID del documento"
// @Param        line  path      int                      true  "Posición de la línea (desde 0)"
// @Param        body  body      dto.DocumentItemRequest  true  "Línea"
// @Success      200   {object}  dto.DocumentResponse
// @Router       /api/documents/{id}/items/{line} [put]
func (h *DocumentHandler) UpdateItem(c *fiber.Ctx) error {
	line, err := lineParam(c)
	if err != nil {
		return err
	}
	var in dto.DocumentItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.docs.UpdateItem(c.UserContext(), GetCompanyID(c), c.Params("id"), line, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar línea
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id    path      string  true  "ID del documento"
// @Param        line  path      int     true  "Posición de la línea (desde 0)"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/documents/{id}/items/{line} [delete]
func (h *DocumentHandler) RemoveItem(c *fiber.Ctx) error {
	line, err := lineParam(c)
	if err != nil {
		return err
	}
	out, err := h.docs.RemoveItem(c.UserContext(), GetCompanyID(c), c.Params("id"), line)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.docs.Confirm(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.docs.Cancel(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Invoice godoc
// @Summary      Facturar documento confirmado
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true   "ID del documento"
// @Param        body  body      dto.InvoiceDocumentRequest  false  "Número y fecha"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/invoice [post]
func (h *DocumentHandler) Invoice(c *fiber.Ctx) error {
	var in dto.InvoiceDocumentRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.invoices.InvoiceDocument(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func lineParam(c *fiber.Ctx) (int, error) {
	line, err := c.ParamsInt("line")
	if err != nil || line < 0 {
		return 0, &badRequestError{code: "INVALID_LINE", message: "line debe ser un entero >= 0"}
	}
	return line, nil
}
