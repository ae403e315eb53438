package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/storefront-sync/docs"
	"github.com/aaravmahajanofficial/storefront-sync/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-sync/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-sync/internal/cache"
	"github.com/aaravmahajanofficial/storefront-sync/internal/config"
	"github.com/aaravmahajanofficial/storefront-sync/internal/events"
	"github.com/aaravmahajanofficial/storefront-sync/internal/health"
	"github.com/aaravmahajanofficial/storefront-sync/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront-sync/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront-sync/internal/services"
	"github.com/aaravmahajanofficial/storefront-sync/internal/tracing"
	"github.com/aaravmahajanofficial/storefront-sync/pkg/sendgrid"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "1.0.0"

//	@title						Storefront API
//	@version					1.0
//	@description				Catalog, cart synchronization and order commit service.
//	@host						localhost:5000
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token.
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, &cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer catalogCache.Close()

	rateLimitRepo := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)

	publisher, err := events.NewPublisher(&cfg.RabbitMQ)
	if err != nil {
		// orders still commit without the event stream
		slog.Warn("⚠️ RabbitMQ unavailable, order events disabled", slog.String("error", err.Error()))
		publisher = events.NoopPublisher{}
	}
	defer publisher.Close()

	var mailer sendgrid.EmailService
	if cfg.SendGrid.APIKey != "" {
		mailer = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	tokenTTL := time.Duration(cfg.Security.JWTExpiryHours) * time.Hour

	userService := service.NewUserService(repos.User, rateLimitRepo, jwtKey, tokenTTL)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product, catalogCache, cfg.Cache.CatalogTTL, cfg.Cache.DefaultTTL)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Order, repos.User, publisher, mailer, service.OrderServiceConfig{
		DeliveryFee: decimal.NewFromFloat(cfg.Store.DeliveryFee),
		Currency:    cfg.Store.Currency,
	})
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, version)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", version))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/product/get-all-products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/product/get-single-product", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/user/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/user/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/cart/get-cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/add-to-cart", authMiddleware.Authenticate(cartHandler.AddToCart()))
	routerMux.HandleFunc("PATCH /api/v1/cart/update-cart", authMiddleware.Authenticate(cartHandler.UpdateCart()))
	routerMux.HandleFunc("DELETE /api/v1/cart/remove-from-cart/{itemId}", authMiddleware.Authenticate(cartHandler.RemoveFromCart()))
	routerMux.HandleFunc("DELETE /api/v1/cart/clear-cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/order/create", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/order/user-orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/order/{orderId}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/order/cancel/{orderId}", authMiddleware.Authenticate(orderHandler.CancelOrder()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
