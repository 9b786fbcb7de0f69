package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-service/internal/application/stock"
	"github.com/jhoicas/stock-service/internal/domain/repository"
	"github.com/jhoicas/stock-service/internal/infrastructure/eventlog"
	infrakafka "github.com/jhoicas/stock-service/internal/infrastructure/kafka"
	"github.com/jhoicas/stock-service/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-service/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-service/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-service/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jhoicas/stock-service/internal/interfaces/http"
	"github.com/jhoicas/stock-service/pkg/config"
	"github.com/jhoicas/stock-service/pkg/logger"
)

// storage agrupa los adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	stocks        repository.StockEntryRepository
	notifications repository.ReplenishmentNotificationRepository
	tx            stock.TxRunner
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("notify", cfg.Notify.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	publisher, closePublisher, err := openPublisher(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar publicador de eventos")
	}
	defer closePublisher()

	stockSvc := stock.NewService(
		store.stocks, store.notifications, store.tx, publisher, log,
		stock.Options{CheckOnCreate: cfg.Stock.CheckOnCreate},
	)

	// PDF: reporte de reposición
	pdfGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name)
	reportUC := stock.NewReplenishmentReportUseCase(store.stocks, pdfGenerator, cfg.Stock.TargetFactor)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Stock:        stockSvc,
		Report:       reportUC,
		StrictErrors: cfg.HTTP.StrictErrors,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		stocks := memory.NewStockEntryRepository()
		notifications := memory.NewNotificationRepository(stocks)
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			stocks:        stocks,
			notifications: notifications,
			tx:            memory.NewTxRunner(stocks, notifications),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema de base de datos verificado")
	}
	return &storage{
		stocks:        postgres.NewStockEntryRepository(pool),
		notifications: postgres.NewNotificationRepository(pool),
		tx:            postgres.NewTxRunner(pool),
		close:         pool.Close,
	}, nil
}

func openPublisher(cfg *config.Config, log *logger.Logger) (stock.ReplenishmentPublisher, func(), error) {
	switch cfg.Notify.Driver {
	case config.NotifyKafka:
		p := infrakafka.NewPublisher(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		return p, func() {
			if err := p.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor Kafka")
			}
		}, nil
	case config.NotifyRabbitMQ:
		conn, ch, err := rabbitmq.SetupConn(cfg.Notify.AMQPURL, cfg.Notify.AMQPExchange, log)
		if err != nil {
			return nil, nil, err
		}
		return rabbitmq.NewPublisher(ch, cfg.Notify.AMQPExchange), func() {
			_ = ch.Close()
			_ = conn.Close()
		}, nil
	default:
		return eventlog.NewPublisher(log), func() {}, nil
	}
}
