// File: cmd/migrate/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"activation-service/internal/config"
	pg "activation-service/internal/infra/db/postgres"
	"activation-service/internal/infra/logging"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	dsn := flag.String("dsn", "", "postgres DSN (overrides config and ACTIVATION_DATABASE_URL)")
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	logger := logging.New(config.LogConfig{Level: "info", Format: "console"}, false)

	url := *dsn
	if url == "" {
		url = os.Getenv("ACTIVATION_DATABASE_URL")
	}
	if url == "" {
		cfg, err := config.LoadConfig(*cfgPath, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		url = cfg.Database.URL
	}

	var (
		version uint
		err     error
	)
	if *down > 0 {
		version, err = pg.MigrateDown(url, *down)
	} else {
		version, err = pg.Migrate(url)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Uint("schema_version", version).Int("down", *down).Msg("migrations complete")
}
