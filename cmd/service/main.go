package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/dartsstats/internal/auth/authstate"
	"github.com/dropDatabas3/dartsstats/internal/auth/bearer"
	"github.com/dropDatabas3/dartsstats/internal/auth/keycloak"
	"github.com/dropDatabas3/dartsstats/internal/cache"
	"github.com/dropDatabas3/dartsstats/internal/config"
	authctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/health"
	managementctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/management"
	matchesctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/matches"
	playersctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/players"
	venuesctrl "github.com/dropDatabas3/dartsstats/internal/http/controllers/venues"
	mw "github.com/dropDatabas3/dartsstats/internal/http/middlewares"
	"github.com/dropDatabas3/dartsstats/internal/http/router"
	authsvc "github.com/dropDatabas3/dartsstats/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/dartsstats/internal/http/services/health"
	"github.com/dropDatabas3/dartsstats/internal/http/services/stats"
	venuessvc "github.com/dropDatabas3/dartsstats/internal/http/services/venues"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
	"github.com/dropDatabas3/dartsstats/internal/seed"
	"github.com/dropDatabas3/dartsstats/internal/store"
	memstore "github.com/dropDatabas3/dartsstats/internal/store/memory"
	pgstore "github.com/dropDatabas3/dartsstats/internal/store/pg"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	seedOnStart := flag.Bool("seed", false, "Load the demo dataset on startup (memory driver)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Storage ----
	var st store.Store
	switch cfg.Storage.Driver {
	case "postgres":
		pgs, err := pgstore.New(ctx, cfg.Storage.DSN, pgstore.Config{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			lg.Fatal("postgres store init failed", logger.Err(err))
		}
		st = pgs
	default:
		st = memstore.New()
	}
	defer st.Close()

	if *seedOnStart {
		if err := seed.Apply(ctx, st); err != nil {
			lg.Fatal("seed failed", logger.Err(err))
		}
	}

	// ---- Cache ----
	cacheClient, err := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Duration(cfg.Cache.Memory.DefaultTTL, time.Hour),
	})
	if err != nil {
		lg.Fatal("cache init failed", logger.Err(err))
	}
	defer func() { _ = cacheClient.Close() }()

	// ---- Identity provider ----
	redirectURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/api/auth/callback"
	provider := keycloak.New(cfg.Keycloak.Authority, cfg.Keycloak.ClientID, redirectURL, cfg.Keycloak.Scope)

	states := authstate.New(cacheClient, config.Duration(cfg.Keycloak.StateTTL, 10*time.Minute))

	verifier, err := bearer.New(ctx, bearer.Config{
		JWKSURL:         provider.JWKSURL(),
		Issuer:          cfg.Keycloak.Authority,
		RefreshInterval: config.Duration(cfg.Keycloak.JWKSRefreshInterval, time.Hour),
		Leeway:          config.Duration(cfg.Keycloak.JWTLeeway, 30*time.Second),
	})
	if err != nil {
		lg.Fatal("bearer verifier init failed", logger.Err(err))
	}

	// ---- Services ----
	authService := authsvc.New(authsvc.Deps{Provider: provider, States: states})
	statsService := stats.New(st)
	venuesService := venuessvc.New(cacheClient, config.Duration(cfg.Cache.VenueTTL, 24*time.Hour))

	healthService := healthsvc.New(3 * time.Second)
	healthService.Register("store", healthsvc.CheckFunc(st.Ping))
	healthService.Register("cache", healthsvc.CheckFunc(cacheClient.Ping))
	healthService.Register("keycloak", healthsvc.CheckFunc(verifier.CheckReady))

	// ---- HTTP ----
	handler := router.New(router.Deps{
		Auth:               authctrl.New(authService),
		Players:            playersctrl.New(statsService),
		Matches:            matchesctrl.New(statsService),
		Management:         managementctrl.New(statsService),
		Venues:             venuesctrl.New(venuesService),
		Health:             healthctrl.New(healthService),
		RequireAuth:        mw.RequireAuth(verifier),
		RequireAdmin:       mw.RequireAdmin(),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout, 30*time.Second),
	}

	go func() {
		lg.Info("server listening",
			logger.String("addr", cfg.Server.Addr),
			logger.String("storage", cfg.Storage.Driver),
			logger.String("cache", cfg.Cache.Kind),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", logger.Err(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("graceful shutdown failed", logger.Err(err))
	}
}
