package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	menumemory "github.com/tablebite/order-service/internal/domains/menu/adapters/memory"
	menupostgres "github.com/tablebite/order-service/internal/domains/menu/adapters/persistence/postgres"
	menudomain "github.com/tablebite/order-service/internal/domains/menu/domain"
	menuports "github.com/tablebite/order-service/internal/domains/menu/ports"

	ordershttp "github.com/tablebite/order-service/internal/domains/orders/adapters/http"
	ordersmemory "github.com/tablebite/order-service/internal/domains/orders/adapters/memory"
	ordersrabbit "github.com/tablebite/order-service/internal/domains/orders/adapters/messaging/rabbitmq"
	ordersobs "github.com/tablebite/order-service/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/tablebite/order-service/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/tablebite/order-service/internal/domains/orders/application"
	ordersports "github.com/tablebite/order-service/internal/domains/orders/ports"

	platformmigrations "github.com/tablebite/order-service/internal/platform/migrations"
	platformobservability "github.com/tablebite/order-service/internal/platform/observability"
	platformpostgres "github.com/tablebite/order-service/internal/platform/postgres"
	platformrabbit "github.com/tablebite/order-service/internal/platform/rabbitmq"
)

// Run boots the order HTTP API with observability, repositories, and the
// event broker wired.
func Run(ctx context.Context) error {
	const serviceName = "order-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db != nil {
		if err := platformmigrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	repo := buildOrderRepository(db, logger)
	catalog := buildMenuCatalog(db, cfg, logger)

	rabbitClient, cleanupRabbit := platformrabbit.ConnectFromURL(cfg.RabbitMQURL, ordersapp.ExchangeOrderEvents, logger)
	defer cleanupRabbit()
	var publisher ordersports.EventPublisher
	if rabbitClient != nil {
		publisher = ordersrabbit.NewPublisher(rabbitClient)
	}
	dispatcher := ordersapp.NewDispatcher(publisher, logger)

	coreService := ordersapp.NewService(repo, catalog, dispatcher)
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	orderAPI := ordershttp.NewOrderAPI(orderService)
	menuAPI := ordershttp.NewMenuAPI(catalog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	orderAPI.RegisterRoutes(router)
	menuAPI.RegisterRoutes(router)
	router.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	addr := ":" + cfg.Port
	logger.Info("order API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderRepository(db *gorm.DB, logger *slog.Logger) ordersports.Repository {
	if db == nil {
		return ordersmemory.NewRepository()
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db)
}

func buildMenuCatalog(db *gorm.DB, cfg Config, logger *slog.Logger) menuports.Catalog {
	if db != nil {
		logger.Info("menu catalog configured with postgres")
		return menupostgres.NewCatalog(db)
	}
	if !cfg.SeedDemoMenu {
		return menumemory.NewCatalog()
	}
	logger.Info("menu catalog seeded with demo entries")
	return menumemory.NewCatalog(
		menudomain.Item{ID: 1, Name: "Margherita", Price: decimal.NewFromFloat(8.50), Description: "Tomato, mozzarella, basil"},
		menudomain.Item{ID: 2, Name: "Pepperoni", Price: decimal.NewFromFloat(10.00), Description: "Pepperoni, mozzarella"},
		menudomain.Item{ID: 3, Name: "Lemonade", Price: decimal.NewFromFloat(3.50)},
	)
}
