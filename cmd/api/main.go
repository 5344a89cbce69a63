package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/farmacore/ledger-api/internal/application/auth"
	"github.com/farmacore/ledger-api/internal/application/catalog"
	"github.com/farmacore/ledger-api/internal/application/ledger"
	"github.com/farmacore/ledger-api/internal/application/reporting"
	infracache "github.com/farmacore/ledger-api/internal/infrastructure/cache"
	infrapdf "github.com/farmacore/ledger-api/internal/infrastructure/pdf"
	"github.com/farmacore/ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/farmacore/ledger-api/internal/interfaces/http"
	"github.com/farmacore/ledger-api/pkg/config"
	"github.com/farmacore/ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es opcional: sin él la API funciona sin cache de resumen
	// y sin stream externo de bitácora.
	var (
		auditSink    ledger.AuditNotifier
		summaryCache reporting.SummaryCache
	)
	if cfg.Redis.Addr != "" {
		rc := infracache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).
				Msg("Redis no disponible, se continúa sin cache ni stream de bitácora")
		} else {
			auditSink = rc
			summaryCache = rc
			defer rc.Close()
		}
	}

	// Repositorios sobre el pool; las escrituras del libro contable pasan
	// por el TxRunner, que entrega repos ligados a una transacción pgx.
	staffRepo := postgres.NewStaffRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	summaryRepo := postgres.NewSummaryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	checkoutUC := ledger.NewCheckoutUseCase(txRunner, auditSink)
	reversalUC := ledger.NewReversalUseCase(txRunner, auditSink)
	adjustUC := ledger.NewAdjustUseCase(txRunner, auditSink)
	availabilityUC := ledger.NewAvailabilityUseCase(lotRepo)
	queryUC := ledger.NewQueryUseCase(txRepo, lotRepo, auditRepo)

	receiptGen := infrapdf.NewMarotoReceiptGenerator(cfg.App.Pharmacy)
	receiptUC := ledger.NewReceiptUseCase(txRepo, productRepo, receiptGen)

	productUC := catalog.NewProductUseCase(productRepo)
	summaryUC := reporting.NewSummaryUseCase(summaryRepo, summaryCache)
	authUC := auth.NewAuthUseCase(staffRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacore Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CheckoutUC:     checkoutUC,
		ReversalUC:     reversalUC,
		AdjustUC:       adjustUC,
		AvailabilityUC: availabilityUC,
		QueryUC:        queryUC,
		ReceiptUC:      receiptUC,
		ProductUC:      productUC,
		SummaryUC:      summaryUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
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
