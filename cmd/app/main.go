// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activation-service/internal/config"
	"activation-service/internal/infra/api"
	"activation-service/internal/infra/auth"
	pg "activation-service/internal/infra/db/postgres"
	"activation-service/internal/infra/i18n"
	"activation-service/internal/infra/logging"
	"activation-service/internal/infra/metrics"
	red "activation-service/internal/infra/redis"
	"activation-service/internal/infra/sched"
	"activation-service/internal/infra/worker"
	"activation-service/internal/license"
	"activation-service/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (verbose, unredacted logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	if cfg.Database.MigrateOnStart {
		v, err := pg.Migrate(cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("migrate")
		}
		logger.Info().Uint("schema_version", v).Msg("migrations applied")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- License verifier ----
	// A bad key keeps the process up; redemptions then report server_config.
	var verifier *license.Verifier
	if pub, err := license.ParsePublicKey(cfg.License.PublicKey); err != nil {
		logger.Error().Err(err).Msg("license public key unusable")
	} else if verifier, err = license.NewVerifier(pub); err != nil {
		logger.Error().Err(err).Msg("license verifier")
	}

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	codeRepo := pg.NewUsedCodeRepo(pool)
	inviteRepo := pg.NewInviteRepo(pool)

	// ---- Reward workers ----
	var rewardPool *worker.Pool
	if cfg.Rewards.Async {
		rewardPool = worker.NewPool(cfg.Rewards.Workers, logger)
		rewardPool.Start(ctx)
	}

	// ---- Use cases ----
	rewardUC := usecase.NewInviteRewardUseCase(inviteRepo, subRepo, tm, logger)
	notifier := worker.NewRewardNotifier(rewardUC, rewardPool, logger)
	redemptionUC := usecase.NewRedemptionUseCase(verifier, subRepo, codeRepo, notifier, tm, logger, cfg.Runtime.Dev)
	subUC := usecase.NewSubscriptionUseCase(subRepo, logger)
	inviteUC := usecase.NewInviteUseCase(inviteRepo, logger)

	// ---- Redis (optional) ----
	var limiter api.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; redemption rate limiting disabled")
	}

	// ---- HTTP ----
	catalog, err := i18n.LoadCatalog(i18n.LocalesFS)
	if err != nil {
		logger.Fatal().Err(err).Msg("locales")
	}
	srv := api.NewServer(
		redemptionUC, subUC, inviteUC,
		auth.NewAuthenticator(cfg.Auth),
		limiter,
		api.Options{
			RedeemLimit:    cfg.Redis.RedeemLimit,
			RedeemWindow:   cfg.Redis.RedeemWindow,
			RequestTimeout: cfg.Server.RequestTimeout,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Messages:       catalog,
			Dev:            cfg.Runtime.Dev,
		},
		logger,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Stats worker ----
	stats := sched.NewStatsWorker(cfg.Stats.Interval, subUC, pool, logger)
	go func() { _ = stats.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if rewardPool != nil {
		rewardPool.Stop()
	}
	cancel()
}
