package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/dto"
)

// HeaderIdempotencyKey clave de reintento seguro para POST /payments.
const HeaderIdempotencyKey = "Idempotency-Key"

// InvoiceHandler facturas, pagos, estados de cuenta y antigüedad de saldos.
type InvoiceHandler struct {
	invoices   *billing.InvoiceUseCase
	settlement *billing.SettlementUseCase
	statements *billing.StatementUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, settlement *billing.SettlementUseCase, statements *billing.StatementUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, settlement: settlement, statements: statements}
}

// GetByID godoc
// @Summary      Obtener factura con pagado, saldo y estado
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListPayments godoc
// @Summary      Pagos de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {array}   dto.PaymentResponse
// @Router       /api/invoices/{id}/payments [get]
func (h *InvoiceHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.invoices.ListPayments(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Description  El header Idempotency-Key (o idempotency_key en el body) permite reintentar sin duplicar el pago.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path      string                    true   "ID de la factura"
// @Param        Idempotency-Key  header    string                    false  "Clave de idempotencia"
// @Param        body             body      dto.RecordPaymentRequest  true   "Pago"
// @Success      201              {object}  dto.RecordPaymentResponse
// @Success      200              {object}  dto.RecordPaymentResponse  "reintento con la misma clave"
// @Failure      409              {object}  dto.ErrorResponse
// @Failure      422              {object}  dto.ValidationErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if key := strings.TrimSpace(c.Get(HeaderIdempotencyKey)); key != "" {
		in.IdempotencyKey = key
	}
	out, err := h.settlement.RecordPayment(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	if out.Replayed {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Statement godoc
// @Summary      Descargar estado de cuenta (PDF)
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/statement [get]
func (h *InvoiceHandler) Statement(c *fiber.Ctx) error {
	pdf, filename, err := h.statements.DownloadStatement(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Aging godoc
// @Summary      Antigüedad de saldos abiertos
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        kind   query     string  false  "sales (por cobrar) | purchase (por pagar)"
// @Param        as_of  query     string  false  "Fecha de corte (YYYY-MM-DD)"
// @Success      200    {object}  dto.AgingResponse
// @Router       /api/invoices/aging [get]
func (h *InvoiceHandler) Aging(c *fiber.Ctx) error {
	var in dto.AgingRequest
	if err := parseQuery(c, &in); err != nil {
		return err
	}
	out, err := h.invoices.Aging(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
