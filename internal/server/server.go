// Package server boots the full VoltMart process: configuration, database,
// cache, storage, queue workers, scheduler, event listeners, the HTTP API,
// and the gRPC health listener, then runs until signalled.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/voltmart/voltmart/app/controllers"
	"github.com/voltmart/voltmart/app/jobs"
	"github.com/voltmart/voltmart/app/listeners"
	"github.com/voltmart/voltmart/app/routes"
	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/config"
	"github.com/voltmart/voltmart/pkg/cache"
	"github.com/voltmart/voltmart/pkg/database"
	grpcserver "github.com/voltmart/voltmart/pkg/grpc"
	"github.com/voltmart/voltmart/pkg/logger"
	"github.com/voltmart/voltmart/pkg/notification"
	"github.com/voltmart/voltmart/pkg/queue"
	"github.com/voltmart/voltmart/pkg/router"
	"github.com/voltmart/voltmart/pkg/schedule"
	"github.com/voltmart/voltmart/pkg/storage"
	"github.com/voltmart/voltmart/pkg/ws"
)

// Start boots everything and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		if err := logger.EnableMongo(uri, config.LogMongoDB(), config.LogMongoCollection()); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
		defer logger.Shutdown()
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()

	if url := config.SlackWebhookURL(); url != "" {
		notification.SetSlackWebhook(url)
	}

	// Background jobs run in-process; a dedicated workers command exists for
	// scaling them out with the Redis driver.
	jobs.Register()
	queue.UseDB(database.DB)
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, config.QueueWorkers())

	// Services.
	authService := services.NewAuthService(database.DB)
	userService := services.NewUserService(database.DB)
	productService := services.NewProductService(database.DB)
	categoryService := services.NewCategoryService(database.DB)
	cartService := services.NewCartService(database.DB)
	orderService := services.NewOrderService(database.DB)
	dashboardService := services.NewDashboardService(database.DB)
	currencyService := services.NewCurrencyService(config.RatesAPIURL())

	// Live admin feed and event listeners.
	hub := ws.NewHub()
	go hub.Run()
	listeners.Register(database.DB, hub)

	// Refresh exchange rates hourly when an endpoint is configured.
	if config.RatesAPIURL() != "" {
		_ = currencyService.Refresh()
		schedule.Hourly().Name("currency:refresh").Run(func() {
			_ = currencyService.Refresh()
		})
	}
	go schedule.Start(ctx)

	graphqlHandler, err := controllers.NewGraphQLHandler(productService, categoryService)
	if err != nil {
		return err
	}

	r := router.New()
	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authService),
		Products:   controllers.NewProductController(productService),
		Categories: controllers.NewCategoryController(categoryService),
		Cart:       controllers.NewCartController(cartService),
		Orders:     controllers.NewOrderController(orderService),
		Users:      controllers.NewUserController(userService),
		Dashboard:  controllers.NewDashboardController(dashboardService, productService),
		Currency:   controllers.NewCurrencyController(currencyService),
		GraphQL:    graphqlHandler,
		Hub:        hub,
	})

	// Optional gRPC health/reflection listener for infra probes.
	if port := config.GRPCPort(); port != "" {
		srv, _, err := grpcserver.Start(port)
		if err != nil {
			return err
		}
		defer grpcserver.Stop(srv)
	}

	httpServer := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", httpServer.Addr, "env", config.AppEnv())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// NewRouter builds the route table without starting listeners. Used by the
// route:list command.
func NewRouter() (*router.Router, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}

	productService := services.NewProductService(database.DB)
	categoryService := services.NewCategoryService(database.DB)

	graphqlHandler, err := controllers.NewGraphQLHandler(productService, categoryService)
	if err != nil {
		return nil, err
	}

	r := router.New()
	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(services.NewAuthService(database.DB)),
		Products:   controllers.NewProductController(productService),
		Categories: controllers.NewCategoryController(categoryService),
		Cart:       controllers.NewCartController(services.NewCartService(database.DB)),
		Orders:     controllers.NewOrderController(services.NewOrderService(database.DB)),
		Users:      controllers.NewUserController(services.NewUserService(database.DB)),
		Dashboard:  controllers.NewDashboardController(services.NewDashboardService(database.DB), productService),
		Currency:   controllers.NewCurrencyController(services.NewCurrencyService("")),
		GraphQL:    graphqlHandler,
	})
	return r, nil
}
