package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"spirit-hunts/internal/admin/admin_api"
	"spirit-hunts/internal/auth"
	"spirit-hunts/internal/auth/auth_api"
	"spirit-hunts/internal/booking"
	"spirit-hunts/internal/booking/booking_api"
	"spirit-hunts/internal/catalogue"
	"spirit-hunts/internal/catalogue/catalogue_api"
	"spirit-hunts/internal/config"
	"spirit-hunts/internal/contact"
	"spirit-hunts/internal/contact/contact_api"
	"spirit-hunts/internal/database/migrations"
	"spirit-hunts/internal/kafka"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/realtime"
	"spirit-hunts/internal/reviews"
	"spirit-hunts/internal/reviews/review_api"
	"spirit-hunts/internal/store"
)

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	bunDB, err := store.OpenPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	log.Info("DATABASE", "✅ PostgreSQL connection successful")

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Redis.Addr, cfg.Redis.DB))

	return bunDB, redisClient
}

func runMigrations(bunDB *bun.DB, cfg config.DatabaseConfig, log *logger.Logger) {
	runner := migrations.NewRunner(bunDB.DB, migrations.MigrateOptions{
		MigrationsDir: cfg.MigrationsDir,
		SeedData:      cfg.SeedData,
	}, log)
	defer runner.Close()

	if err := runner.Up(); err != nil {
		log.Fatal("MIGRATE", fmt.Sprintf("Failed to run migrations: %v", err))
	}
	log.Info("MIGRATE", "✅ Database schema up to date")
}

func newPublisher(cfg config.KafkaConfig, log *logger.Logger) kafka.Publisher {
	if !cfg.Enabled {
		log.Warn("KAFKA", "Kafka disabled, submission events will not be published")
		return kafka.NoopPublisher{}
	}

	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Brokers))
	if err := kafka.EnsureTopicsExist(cfg.Brokers, cfg.AllTopics(), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}
	return kafka.NewProducer(cfg.Brokers, log)
}

// requestLogger records every request through the API logger.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}

type routes struct {
	catalogue *catalogue_api.Handler
	booking   *booking_api.Handler
	reviews   *review_api.Handler
	contact   *contact_api.Handler
	auth      *auth_api.Handler
	admin     *admin_api.Handler
	guard     func(http.Handler) http.Handler
}

func newRouter(h routes, log *logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		// --- Public Routes ---
		h.catalogue.RegisterRoutes(r)
		h.booking.RegisterRoutes(r)
		h.reviews.RegisterRoutes(r)
		h.contact.RegisterRoutes(r)
		log.Info("ROUTER", "Public routes registered under /api")

		r.Route("/admin", func(r chi.Router) {
			h.auth.RegisterPublicRoutes(r)

			// --- Protected Routes ---
			r.Group(func(r chi.Router) {
				r.Use(h.guard)
				r.Get("/me", h.auth.Me)
				h.admin.RegisterRoutes(r)
			})
			log.Info("ROUTER", "Admin routes registered under /api/admin")
		})
	})

	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}

	log := logger.NewLogger("spirit-hunts")
	defer log.Close()

	log.Info("APP", "Starting Spirit Hunts service initialization")
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	if cfg.Database.AutoMigrate {
		runMigrations(bunDB, cfg.Database, log)
	}

	broker := realtime.NewBroker(log)
	bridge := realtime.NewRedisBridge(redisClient, broker, log)
	go func() {
		if err := bridge.Run(ctx); err != nil {
			log.Error("REALTIME", fmt.Sprintf("Change bridge stopped: %v", err))
		}
	}()

	publisher := newPublisher(cfg.Kafka, log)
	if closer, ok := publisher.(*kafka.Producer); ok {
		defer closer.Close()
	}

	tables := store.NewTables(bunDB, bridge, log)

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = uuid.NewString()
		log.Warn("AUTH", "JWT_SECRET not set, generated a random secret; sessions will not survive a restart")
	}
	if cfg.Auth.AdminPasswordHash == "" {
		log.Warn("AUTH", "ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}
	authenticator := auth.NewAuthenticator(cfg.Auth, auth.NewRedisSessionStore(redisClient), log)

	var external auth.IDTokenVerifier
	if cfg.Auth.OIDCIssuer != "" {
		verifier, err := auth.NewOIDCVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			log.Warn("AUTH", fmt.Sprintf("OIDC provider unavailable, falling back to local sessions: %v", err))
		} else {
			external = verifier
			log.Info("AUTH", fmt.Sprintf("Accepting ID tokens from %s for %s", cfg.Auth.OIDCIssuer, cfg.Auth.AdminEmail))
		}
	}

	catalogueService := catalogue.NewService(tables.Events, tables.Reviews, log)
	if _, err := catalogueService.Load(ctx); err != nil {
		log.Warn("CATALOGUE", fmt.Sprintf("Initial catalogue load failed, will retry on first request: %v", err))
	}
	stopWatching := catalogueService.Watch(bridge)
	defer stopWatching()

	bookingService := booking.NewService(tables.Events, tables.Bookings, publisher, cfg.Kafka.Topics.BookingCreated, log)
	reviewService := reviews.NewService(tables.Events, tables.Reviews, publisher, cfg.Kafka.Topics.ReviewCreated, log)
	contactService := contact.NewService(tables.Messages, publisher, cfg.Kafka.Topics.MessageCreated, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := newRouter(routes{
		catalogue: catalogue_api.NewHandler(catalogueService, log),
		booking:   booking_api.NewHandler(bookingService, log),
		reviews:   review_api.NewHandler(reviewService, log),
		contact:   contact_api.NewHandler(contactService, cfg.Contact, log),
		auth:      auth_api.NewHandler(authenticator, log),
		admin:     admin_api.NewHandler(tables, bridge, log),
		guard:     auth.Middleware(authenticator, external, log),
	}, log)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Spirit Hunts running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	// Request contexts derive from ctx, so this also ends open SSE streams.
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Spirit Hunts shutdown complete")
	}
}
