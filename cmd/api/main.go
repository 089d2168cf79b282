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

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/catalog"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/partlock"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Taller-api/internal/interfaces/http"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacenamiento: PostgreSQL o memoria (desarrollo).
	var (
		txRunner inventory.TxRunner
		repos    inventory.Repositories
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore(cfg.DB.LockTimeout)
		if cfg.DB.SeedCSV != "" {
			if err := seedMemory(store, cfg.DB.SeedCSV); err != nil {
				log.Fatal().Err(err).Str("file", cfg.DB.SeedCSV).Msg("cargar catálogo")
			}
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		txRunner, repos = store, store.Repositories()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool, cfg.DB.LockTimeout), postgres.NewRepositories(pool)
	}

	// Bloqueo previo por repuesto en Redis (opcional).
	var locker inventory.PartLocker = inventory.NoopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := partlock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = partlock.New(rdb, cfg.Lock, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo por repuesto en Redis activo")
	}

	ledger := inventory.NewStockLedger(log)
	allocator := inventory.NewFIFOAllocator(ledger)
	alerts := inventory.NewAlertMaintainer()

	receiveUC := inventory.NewReceivePurchaseUseCase(txRunner, locker, ledger, alerts)
	saleUC := inventory.NewCreateSaleUseCase(txRunner, locker, allocator, alerts)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, locker, ledger, allocator, alerts)
	queryUC := inventory.NewQueryUseCase(repos, txRunner, alerts)
	reconcileUC := inventory.NewReconciliationUseCase(txRunner, repos, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos)

	// Conciliación periódica (solo lectura).
	if cfg.Reconcile.Schedule != "" {
		c, err := scheduler.Start(cfg.Reconcile.Schedule, scheduler.NewReconcileJob(reconcileUC, 30*time.Minute, log))
		if err != nil {
			log.Fatal().Err(err).Msg("programar conciliación")
		}
		defer c.Stop()
		log.Info().Str("schedule", cfg.Reconcile.Schedule).Msg("conciliación programada")
	}

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
		Title:    "Taller API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReceivePurchase: receiveUC,
		CreateSale:      saleUC,
		AdjustStock:     adjustUC,
		Query:           queryUC,
		Reconciliation:  reconcileUC,
		Replenishment:   replenishmentUC,
		JWTSecret:       cfg.JWT.Secret,
		Log:             log,
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

func seedMemory(store *memory.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	parts, err := catalog.Read(f, catalog.Options{})
	if err != nil {
		return err
	}
	store.SeedParts(parts...)
	return nil
}
