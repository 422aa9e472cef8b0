package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/money"
)

// CalculationHandler calculadoras puras de líneas y documentos (sin persistencia).
type CalculationHandler struct {
	cur money.Currency
}

// NewCalculationHandler construye el handler para la moneda de la empresa.
func NewCalculationHandler(cur money.Currency) *CalculationHandler {
	return &CalculationHandler{cur: cur}
}

// LineItem godoc
// @Summary      Calcular una línea
// @Tags         calculations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LineItemRequest  true  "Cantidad, precio, descuento y tasa"
// @Success      200   {object}  dto.LineItemResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/calculations/line-item [post]
func (h *CalculationHandler) LineItem(c *fiber.Ctx) error {
	var in dto.LineItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	line, err := ledger.ComputeLineItem(h.cur, in.Input())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLineItemResponse(line))
}

// Document godoc
// @Summary      Calcular totales de un documento
// @Tags         calculations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DocumentCalcRequest  true  "Líneas"
// @Success      200   {object}  dto.DocumentCalcResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/calculations/document [post]
func (h *CalculationHandler) Document(c *fiber.Ctx) error {
	var in dto.DocumentCalcRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	inputs := make([]ledger.LineInput, len(in.Items))
	for i, it := range in.Items {
		inputs[i] = it.Input()
	}
	lines, totals, err := ledger.AggregateInputs(h.cur, inputs)
	if err != nil {
		return err
	}
	out := dto.DocumentCalcResponse{
		Items:  make([]dto.LineItemResponse, len(lines)),
		Totals: dto.NewTotalsResponse(h.cur, totals),
	}
	for i, l := range lines {
		out.Items[i] = dto.NewLineItemResponse(l)
	}
	return c.JSON(out)
}
