package main

import (
	"context"
	"log"
	"os"
	"time"

	"activation-service/internal/config"
	"activation-service/internal/infra/auth"
	"activation-service/internal/infra/db/postgres"
	"activation-service/internal/infra/logging"
	"activation-service/internal/infra/redis"
	"activation-service/internal/license"
	"activation-service/internal/usecase"
)

const (
	inviterID = "e2e-inviter"
	inviteeID = "e2e-invitee"
)

// This script is for setting up a clean, predictable database state
// for manual end-to-end testing against a running server.
func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig("config.yaml", true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	// --- Connect to Postgres ---
	if _, err := postgres.Migrate(cfg.Database.URL); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	pool, err := postgres.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	// 1. Clear rate-limit counters.
	log.Println("[1/4] Wiping Redis rate-limit counters...")
	if cfg.Redis.URL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisClient.Close()
		if err := redisClient.FlushDB(ctx); err != nil {
			log.Fatalf("failed to flush redis: %v", err)
		}
	}

	// 2. Clean the database completely.
	log.Println("[2/4] Wiping all existing ledger data...")
	if _, err := pool.Exec(ctx, `TRUNCATE subscriptions, used_codes, invites`); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	// 3. Register the invite pair.
	log.Println("[3/4] Registering invite pair...")
	inviteUC := usecase.NewInviteUseCase(postgres.NewInviteRepo(pool), logger)
	if _, err := inviteUC.Register(ctx, inviterID, inviteeID); err != nil {
		log.Fatalf("register invite: %v", err)
	}

	// 4. Print credentials for curl.
	log.Println("[4/4] Minting bearer tokens...")
	authn := auth.NewAuthenticator(cfg.Auth)
	for _, subject := range []string{inviterID, inviteeID} {
		tok, err := authn.Mint(subject, 24*time.Hour)
		if err != nil {
			log.Fatalf("mint token for %s: %v", subject, err)
		}
		log.Printf("  %s: Bearer %s", subject, tok)
	}
	if key := os.Getenv("ISSUER_PRIVATE_KEY"); key != "" {
		priv, err := license.ParsePrivateKey(key)
		if err != nil {
			log.Fatalf("issuer key: %v", err)
		}
		signer, err := license.NewSigner(priv)
		if err != nil {
			log.Fatalf("signer: %v", err)
		}
		codes, err := signer.IssueBatch(30, 2)
		if err != nil {
			log.Fatalf("issue codes: %v", err)
		}
		for _, c := range codes {
			log.Printf("  month code: %s", c)
		}
	}

	log.Println("--- E2E Environment Setup Complete ---")
}
