package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// PartyHandler clientes (/customers) y proveedores (/suppliers) comparten handler; kind fija el tipo.
type PartyHandler struct {
	uc   *billing.PartyUseCase
	kind string
}

// NewCustomerHandler handler de clientes.
func NewCustomerHandler(uc *billing.PartyUseCase) *PartyHandler {
	return &PartyHandler{uc: uc, kind: entity.PartyCustomer}
}

// NewSupplierHandler handler de proveedores.
func NewSupplierHandler(uc *billing.PartyUseCase) *PartyHandler {
	return &PartyHandler{uc: uc, kind: entity.PartySupplier}
}

// Create godoc
// @Summary      Crear cliente o proveedor
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePartyRequest  true  "Datos del tercero"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
// @Router       /api/suppliers [post]
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), h.kind, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes o proveedores
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.PartyResponse
// @Router       /api/customers [get]
// @Router       /api/suppliers [get]
func (h *PartyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), h.kind, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
