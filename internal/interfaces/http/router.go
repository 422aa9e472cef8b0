package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Currency   money.Currency
	AccountUC  *accounting.AccountUseCase
	JournalUC  *accounting.JournalUseCase
	PartyUC    *billing.PartyUseCase
	ProductUC  *billing.ProductUseCase
	DocumentUC *billing.DocumentUseCase
	InvoiceUC  *billing.InvoiceUseCase
	Settlement *billing.SettlementUseCase
	Statement  *billing.StatementUseCase
	Auth       AuthConfig
}

// NewApp crea la aplicación Fiber con el mapeo de errores de dominio y recover.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Auth), RequireWriter())

	calc := NewCalculationHandler(deps.Currency)
	api.Post("/calculations/line-item", calc.LineItem)
	api.Post("/calculations/document", calc.Document)

	accounts := api.Group("/accounts")
	accountHandler := NewAccountHandler(deps.AccountUC)
	accounts.Post("/", accountHandler.Create)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Delete("/:id", accountHandler.Delete)

	journal := api.Group("/journal-entries")
	journalHandler := NewJournalHandler(deps.JournalUC)
	journal.Post("/validate", journalHandler.Validate)
	journal.Post("/", journalHandler.Post)
	journal.Get("/", journalHandler.List)
	journal.Get("/:id", journalHandler.GetByID)

	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.PartyUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.PartyUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)

	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.InvoiceUC)
	documents.Post("/", documentHandler.Create)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Post("/:id/items", documentHandler.AddItem)
	documents.Put("/:id/items/:line", documentHandler.UpdateItem)
	documents.Delete("/:id/items/:line", documentHandler.RemoveItem)
	documents.Post("/:id/confirm", documentHandler.Confirm)
	documents.Post("/:id/cancel", documentHandler.Cancel)
	documents.Post("/:id/invoice", documentHandler.Invoice)

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Settlement, deps.Statement)
	invoices.Get("/aging", invoiceHandler.Aging)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/payments", invoiceHandler.ListPayments)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Get("/:id/statement", invoiceHandler.Statement)
}
