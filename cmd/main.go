package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	restctx "github.com/easy-books/easy-books-server/internal/api/rest/context"
	"github.com/easy-books/easy-books-server/internal/api/rest/router"
	httpServer "github.com/easy-books/easy-books-server/internal/api/rest/server"
	"github.com/easy-books/easy-books-server/internal/config"
	"github.com/easy-books/easy-books-server/internal/logger"
	"github.com/easy-books/easy-books-server/internal/model"
	"github.com/easy-books/easy-books-server/internal/observability"
	"github.com/easy-books/easy-books-server/internal/password"
	"github.com/easy-books/easy-books-server/internal/repository/postgres"
	"github.com/easy-books/easy-books-server/internal/repository/redis"
	"github.com/easy-books/easy-books-server/internal/server"
	"github.com/easy-books/easy-books-server/internal/service"
	"github.com/easy-books/easy-books-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := postgres.NewConnection(ctx, postgres.PoolConfig{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		OperationTimeout: cfg.Database.OperationTimeout,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	hasher, err := password.NewArgon2(password.Params{
		Time:   cfg.KDF.Time,
		MemKiB: cfg.KDF.MemKiB,
		Par:    cfg.KDF.Par,
	})
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	tokenManager := token.NewJWT(token.Options{
		KeyID:       cfg.JWT.KeyID,
		Secret:      cfg.JWT.Secret,
		RetiredKeys: cfg.JWT.RetiredKeys,
		TTL:         cfg.JWT.TTL,
		Issuer:      cfg.JWT.Issuer,
	})

	var throttle model.LoginThrottle
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		throttle = redis.NewLoginAttempts(redisClient, cfg.Auth.MaxFailedLogins, cfg.Auth.FailedLoginWindow)
	} else {
		logger.Warn("REDIS_ADDR is empty, failed login throttling is disabled")
	}

	validate := service.NewValidator()

	userRepo := postgres.NewUserRepository(db)
	authService := service.NewAuth(userRepo, hasher, tokenManager, throttle, service.AuthPolicy{
		MinPasswordLength:   cfg.Auth.MinPasswordLength,
		CheckUserOnValidate: cfg.Auth.CheckUserOnValidate,
	}, logger)

	inventoryService := service.NewResource(
		postgres.NewItemRepository[model.InventoryPayload](db, model.InventoryKind),
		service.InventorySchema(), validate, logger)
	relationshipService := service.NewResource(
		postgres.NewItemRepository[model.RelationshipPayload](db, model.RelationshipKind),
		service.RelationshipSchema(), validate, logger)
	purchaseService := service.NewResource(
		postgres.NewItemRepository[model.PurchasePayload](db, model.PurchaseKind),
		service.PurchaseSchema(), validate, logger)
	saleService := service.NewResource(
		postgres.NewItemRepository[model.SalePayload](db, model.SaleKind),
		service.SaleSchema(), validate, logger)
	miscellaneousService := service.NewResource(
		postgres.NewItemRepository[model.MiscellaneousPayload](db, model.MiscellaneousKind),
		service.MiscellaneousSchema(), validate, logger)

	metrics := observability.NewMetrics()
	metrics.RegisterPool(db)

	r := router.New(authService, router.Resources{
		Inventory:     inventoryService,
		Relationships: relationshipService,
		Purchases:     purchaseService,
		Sales:         saleService,
		Miscellaneous: miscellaneousService,
	}, db, metrics,
		restctx.NewManager(), validate, router.Options{
			RequestTimeout: cfg.HTTP.RequestTimeout,
			RateLimit:      cfg.HTTP.RateLimit,
			AuthRateLimit:  cfg.HTTP.AuthRateLimit,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			EnableHTTPS:    cfg.HTTP.EnableHTTPS,
		}, logger)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), httpServer.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
	})

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	logAppVersion()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server on", "address", srv.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := srv.Start(sl); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", "address", srv.Address())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		return
	}
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
