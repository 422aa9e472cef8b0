package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/accounting"
	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/ledger-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/ledger-api/internal/interfaces/http"
	"github.com/jhoicas/ledger-api/pkg/config"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// ledgerTx transacción del libro; la implementan postgres.TxRunner y memory.Store.
type ledgerTx interface {
	RunLedger(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("currency", cfg.Ledger.Currency).
		Msg("iniciando aplicación")

	cur, err := money.CurrencyFromCode(cfg.Ledger.Currency)
	if err != nil {
		log.Fatal().Err(err).Str("currency", cfg.Ledger.Currency).Msg("moneda inválida")
	}
	if cfg.Ledger.CurrencyExponent >= 0 {
		if cur, err = cur.WithExponent(int32(cfg.Ledger.CurrencyExponent)); err != nil {
			log.Fatal().Err(err).Int("exponent", cfg.Ledger.CurrencyExponent).Msg("exponente de moneda inválido")
		}
	}

	ctx := context.Background()

	var (
		txRunner ledgerTx
		repos    repository.TxRepos
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool), postgres.Repos(pool)
	}

	// Idempotencia de pagos: Redis si está configurado; si no, en memoria del proceso.
	var idem billing.IdempotencyStore = memory.NewIdempotencyStore(cfg.Redis.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		idem = infraredis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
	}

	posting := postingAccounts(cfg.Ledger.Accounts)

	accountUC := accounting.NewAccountUseCase(repos.Accounts, cur)
	journalUC := accounting.NewJournalUseCase(txRunner, repos.Accounts, repos.Journal, cur, log)
	partyUC := billing.NewPartyUseCase(repos.Parties)
	productUC := billing.NewProductUseCase(repos.Products)
	documentUC := billing.NewDocumentUseCase(txRunner, repos.Documents, repos.Parties, repos.Products, cur)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, journalUC, repos.Invoices, repos.Payments, repos.Parties, posting, cur, log)
	settlementUC := billing.NewSettlementUseCase(txRunner, journalUC, idem, posting, cur, log)

	// PDF: estado de cuenta de la factura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Ledger.Locale)
	statementUC := billing.NewStatementUseCase(
		repos.Invoices, repos.Payments, repos.Parties, repos.Documents,
		pdfGenerator, cfg.App.CompanyName, cur,
	)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Currency:   cur,
		AccountUC:  accountUC,
		JournalUC:  journalUC,
		PartyUC:    partyUC,
		ProductUC:  productUC,
		DocumentUC: documentUC,
		InvoiceUC:  invoiceUC,
		Settlement: settlementUC,
		Statement:  statementUC,
		Auth:       httpRouter.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func postingAccounts(c config.AccountCodes) billing.PostingAccounts {
	return billing.PostingAccounts{
		Receivable:    c.Receivable,
		Payable:       c.Payable,
		Sales:         c.Sales,
		Purchases:     c.Purchases,
		TaxPayable:    c.TaxPayable,
		TaxReceivable: c.TaxReceivable,
		Cash:          c.Cash,
		Bank:          c.Bank,
	}
}
