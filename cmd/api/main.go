package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fuelops/backend-fuel/internal/catalog"
	"github.com/fuelops/backend-fuel/internal/config"
	"github.com/fuelops/backend-fuel/internal/customer"
	"github.com/fuelops/backend-fuel/internal/db"
	"github.com/fuelops/backend-fuel/internal/delivery"
	"github.com/fuelops/backend-fuel/internal/finance"
	"github.com/fuelops/backend-fuel/internal/health"
	"github.com/fuelops/backend-fuel/internal/obs"
	"github.com/fuelops/backend-fuel/internal/offer"
	"github.com/fuelops/backend-fuel/internal/order"
	"github.com/fuelops/backend-fuel/internal/pricebook"
	"github.com/fuelops/backend-fuel/internal/ratelimit"
	"github.com/fuelops/backend-fuel/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	if envBool("DB_AUTO_MIGRATE", true) {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	ctx := context.Background()
	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	pricebookSvc := &pricebook.Service{
		Store: &pricebook.PGStore{Pool: pool},
		R:     redisClient,
		TTL:   cfg.PriceCacheTTL,
	}
	pricebookHandler := &pricebook.Handler{Svc: pricebookSvc}

	catalogSvc := &catalog.Service{
		Store: &catalog.PGStore{Pool: pool},
		Cache: catalog.NewCache(redisClient, cfg.ProductCacheTTL),
	}
	catalogHandler := &catalog.Handler{Svc: catalogSvc}

	customerSvc := &customer.Service{Store: &customer.PGStore{Pool: pool}}
	customerHandler := &customer.Handler{Svc: customerSvc}

	transportSvc := &transport.Service{Store: &transport.PGStore{Pool: pool}}
	transportHandler := &transport.Handler{Svc: transportSvc}

	orderSvc := &order.Service{Store: &order.PGStore{Pool: pool}}
	orderHandler := &order.Handler{Svc: orderSvc}

	offerSvc := &offer.Service{
		Store:  &offer.PGStore{Pool: pool},
		Prices: pricebookSvc,
		Orders: orderSvc,
	}
	offerHandler := &offer.Handler{Svc: offerSvc}

	deliverySvc := &delivery.Service{Store: &delivery.PGStore{Pool: pool}}
	deliveryHandler := &delivery.Handler{Svc: deliverySvc}

	financeSvc := &finance.Service{Store: &finance.PGStore{Pool: pool}}
	financeHandler := &finance.Handler{Svc: financeSvc}

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "fuel")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	rateLimiter, err := ratelimit.Middleware(redisClient, cfg.RateLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure rate limiter")
	}

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", true) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(rateLimiter)

		v.Route("/products", func(p chi.Router) {
			p.Get("/", catalogHandler.ListProducts)
			p.Post("/", catalogHandler.CreateProduct)
			p.Get("/{productID}", catalogHandler.GetProduct)
			p.Put("/{productID}", catalogHandler.UpdateProduct)
			p.Get("/{productID}/price", pricebookHandler.Latest)
			p.Get("/{productID}/price/history", pricebookHandler.History)
		})
		v.Post("/prices", pricebookHandler.Publish)

		v.Route("/suppliers", func(s chi.Router) {
			s.Get("/", catalogHandler.ListSuppliers)
			s.Post("/", catalogHandler.CreateSupplier)
			s.Get("/{supplierID}", catalogHandler.GetSupplier)
			s.Put("/{supplierID}", catalogHandler.UpdateSupplier)
		})

		v.Route("/customers", func(c chi.Router) {
			c.Get("/", customerHandler.List)
			c.Post("/", customerHandler.Create)
			c.Get("/{customerID}", customerHandler.Get)
			c.Put("/{customerID}", customerHandler.Update)
		})

		v.Route("/transport-companies", func(t chi.Router) {
			t.Get("/", transportHandler.ListCompanies)
			t.Post("/", transportHandler.CreateCompany)
			t.Get("/{companyID}", transportHandler.GetCompany)
			t.Get("/{companyID}/vehicles", transportHandler.ListVehicles)
			t.Post("/{companyID}/vehicles", transportHandler.AddVehicle)
			t.Get("/{companyID}/drivers", transportHandler.ListDrivers)
			t.Post("/{companyID}/drivers", transportHandler.AddDriver)
		})

		v.Route("/offers", func(o chi.Router) {
			o.Post("/quote", offerHandler.Quote)
			o.Get("/", offerHandler.List)
			o.Post("/", offerHandler.Create)
			o.Get("/{offerID}", offerHandler.Get)
			o.Put("/{offerID}/pricing", offerHandler.Reprice)
			o.Post("/{offerID}/status", offerHandler.SetStatus)
			o.Post("/{offerID}/accept", offerHandler.Accept)
		})

		v.Route("/orders", func(o chi.Router) {
			o.Get("/", orderHandler.List)
			o.Post("/", orderHandler.Create)
			o.Get("/{orderID}", orderHandler.Get)
			o.Post("/{orderID}/status", orderHandler.SetStatus)
			o.Get("/{orderID}/deliveries", deliveryHandler.ListByOrder)
		})

		v.Route("/deliveries", func(d chi.Router) {
			d.Post("/", deliveryHandler.Plan)
			d.Get("/{deliveryID}", deliveryHandler.Get)
			d.Post("/{deliveryID}/dispatch", deliveryHandler.Dispatch)
			d.Post("/{deliveryID}/complete", deliveryHandler.Complete)
			d.Post("/{deliveryID}/cancel", deliveryHandler.Cancel)
		})

		v.Route("/credits", func(c chi.Router) {
			c.Post("/preview", financeHandler.Preview)
			c.Get("/", financeHandler.List)
			c.Post("/", financeHandler.Create)
			c.Get("/{creditID}", financeHandler.Get)
			c.Get("/{creditID}/installments", financeHandler.Schedule)
			c.Put("/{creditID}/installments/{no}", financeHandler.Edit)
			c.Post("/{creditID}/installments/{no}/payments", financeHandler.Pay)
			c.Delete("/{creditID}/installments/{no}", financeHandler.Remove)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(pingCtx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(pingCtx).Err()
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return client
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
