package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitrinelabs/vitrine-backend/api/routes"
	"github.com/vitrinelabs/vitrine-backend/internal/addresses"
	"github.com/vitrinelabs/vitrine-backend/internal/auth"
	"github.com/vitrinelabs/vitrine-backend/internal/cart"
	"github.com/vitrinelabs/vitrine-backend/internal/catalog"
	"github.com/vitrinelabs/vitrine-backend/internal/checkout"
	"github.com/vitrinelabs/vitrine-backend/internal/content"
	"github.com/vitrinelabs/vitrine-backend/internal/coupons"
	"github.com/vitrinelabs/vitrine-backend/internal/delivery"
	"github.com/vitrinelabs/vitrine-backend/internal/notifications"
	"github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/internal/users"
	"github.com/vitrinelabs/vitrine-backend/pkg/auth/session"
	"github.com/vitrinelabs/vitrine-backend/pkg/cep"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/metrics"
	"github.com/vitrinelabs/vitrine-backend/pkg/migrate"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/redis"
	"github.com/vitrinelabs/vitrine-backend/pkg/shipping"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, logg, dbClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, sessionManager, svcs, routes.Pingers{
			DB:    dbClient,
			Redis: redisClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager) (routes.Services, error) {
	gormDB := dbClient.DB()

	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	contentRepo := content.NewRepository(gormDB)
	couponRepo := coupons.NewRepository(gormDB)
	deliveryRepo := delivery.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)

	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)

	cepClient := cep.NewClient(
		cep.WithBaseURL(cfg.CEP.BaseURL),
		cep.WithHTTPClient(&http.Client{Timeout: cfg.CEP.Timeout}),
	)
	shippingClient, err := shipping.NewClient(
		cfg.Shipping.BaseURL,
		shipping.WithToken(cfg.Shipping.Token),
		shipping.WithHTTPClient(&http.Client{Timeout: cfg.Shipping.Timeout}),
	)
	if err != nil {
		return routes.Services{}, err
	}

	authSvc, err := auth.NewService(userRepo, sessions, cfg.JWT, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}
	addressSvc, err := addresses.NewService(userRepo, cepClient)
	if err != nil {
		return routes.Services{}, err
	}
	productSvc, err := products.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}
	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		return routes.Services{}, err
	}
	contentSvc, err := content.NewService(contentRepo)
	if err != nil {
		return routes.Services{}, err
	}
	couponSvc, err := coupons.NewService(couponRepo)
	if err != nil {
		return routes.Services{}, err
	}
	deliverySvc, err := delivery.NewService(deliveryRepo)
	if err != nil {
		return routes.Services{}, err
	}
	cartSvc, err := cart.NewService(cartRepo, productRepo, couponSvc)
	if err != nil {
		return routes.Services{}, err
	}
	orderSvc, err := orders.NewService(orderRepo, productRepo, dbClient, outboxSvc)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutSvc, err := checkout.NewService(
		cartRepo,
		productRepo,
		couponRepo,
		orderRepo,
		userRepo,
		deliveryRepo,
		shippingClient,
		dbClient,
		outboxSvc,
		metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		cfg.Shipping,
	)
	if err != nil {
		return routes.Services{}, err
	}
	notificationSvc, err := notifications.NewService(notificationRepo)
	if err != nil {
		return routes.Services{}, err
	}
	userSvc, err := users.NewService(userRepo)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authSvc,
		Addresses:     addressSvc,
		Products:      productSvc,
		Catalog:       catalogSvc,
		Content:       contentSvc,
		Delivery:      deliverySvc,
		Coupons:       couponSvc,
		Cart:          cartSvc,
		Checkout:      checkoutSvc,
		Orders:        orderSvc,
		Notifications: notificationSvc,
		Users:         userSvc,
	}, nil
}
