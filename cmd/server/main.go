package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assettypehandler "github.com/chrisstorey/community-building-manager/internal/assettype/handler"
	assettypeservice "github.com/chrisstorey/community-building-manager/internal/assettype/service"
	assettypestore "github.com/chrisstorey/community-building-manager/internal/assettype/store"
	dashboardhandler "github.com/chrisstorey/community-building-manager/internal/dashboard/handler"
	dashboardservice "github.com/chrisstorey/community-building-manager/internal/dashboard/service"
	identityhandler "github.com/chrisstorey/community-building-manager/internal/identity/handler"
	identityservice "github.com/chrisstorey/community-building-manager/internal/identity/service"
	identitystore "github.com/chrisstorey/community-building-manager/internal/identity/store"
	"github.com/chrisstorey/community-building-manager/internal/identity/store/revocation"
	jwttoken "github.com/chrisstorey/community-building-manager/internal/jwt_token"
	orghandler "github.com/chrisstorey/community-building-manager/internal/organization/handler"
	orgservice "github.com/chrisstorey/community-building-manager/internal/organization/service"
	orgstore "github.com/chrisstorey/community-building-manager/internal/organization/store"
	"github.com/chrisstorey/community-building-manager/internal/platform/config"
	"github.com/chrisstorey/community-building-manager/internal/platform/httpserver"
	"github.com/chrisstorey/community-building-manager/internal/platform/logger"
	"github.com/chrisstorey/community-building-manager/internal/platform/metrics"
	"github.com/chrisstorey/community-building-manager/internal/platform/postgres"
	redisplatform "github.com/chrisstorey/community-building-manager/internal/platform/redis"
	httptransport "github.com/chrisstorey/community-building-manager/internal/transport/http"
	workhandler "github.com/chrisstorey/community-building-manager/internal/work/handler"
	workservice "github.com/chrisstorey/community-building-manager/internal/work/service"
	workstore "github.com/chrisstorey/community-building-manager/internal/work/store"
	txcontext "github.com/chrisstorey/community-building-manager/pkg/platform/tx"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx := context.Background()

	var (
		userStore      identityservice.UserStore
		assetTypeStore assettypeservice.Store
		orgStore       orgservice.Store
		workStore      workservice.Store
		statusSource   dashboardservice.StatusSource
		runner         txcontext.Runner
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		userStore = identitystore.NewPostgres(db)
		assetTypeStore = assettypestore.NewPostgres(db)
		orgStore = orgstore.NewPostgres(db)
		pgWork := workstore.NewPostgres(db)
		workStore = pgWork
		statusSource = pgWork
		runner = txcontext.NewSQLRunner(db)
		log.Info("using postgres stores")
	} else {
		userStore = identitystore.NewInMemory()
		assetTypeStore = assettypestore.NewInMemory()
		orgStore = orgstore.NewInMemory()
		memWork := workstore.NewInMemory()
		workStore = memWork
		statusSource = memWork
		runner = txcontext.PassthroughRunner{}
		log.Info("DATABASE_URL not set, using in-memory stores")
	}

	var trl identityservice.RevocationList
	redisClient, err := redisplatform.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		trl = revocation.NewRedisTRL(redisClient.Client)
		log.Info("using redis token revocation list")
	} else {
		trl = revocation.NewMemoryTRL()
		log.Info("REDIS_URL not set, using in-memory token revocation list")
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService, trl)

	identitySvc := identityservice.New(userStore, trl, jwtService, cfg.AccessTokenTTL, log, m)
	assetTypeSvc := assettypeservice.New(assetTypeStore)
	workSvc := workservice.New(workStore, log, m)
	orgSvc := orgservice.New(orgStore, assetTypeSvc, workSvc, runner, log, m)
	dashboardSvc := dashboardservice.New(orgSvc, statusSource, log)

	router := httptransport.NewRouter(log, m,
		identityhandler.New(identitySvc, log, jwtValidator),
		assettypehandler.New(assetTypeSvc, log, jwtValidator),
		orghandler.New(orgSvc, log, jwtValidator),
		workhandler.New(workSvc, log, jwtValidator),
		dashboardhandler.New(dashboardSvc, log, jwtValidator),
	)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
