package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"spirit-hunts/internal/config"
	"spirit-hunts/internal/database/migrations"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/store"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration")
	seed := flag.Bool("seed", false, "also apply the sample-data migrations")
	dir := flag.String("dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}

	log := logger.NewLogger("spirit-hunts-migrate")
	defer log.Close()

	cfg := config.Load()
	if *dir != "" {
		cfg.Database.MigrationsDir = *dir
	}

	bunDB, err := store.OpenPostgres(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB.DB, migrations.MigrateOptions{
		MigrationsDir: cfg.Database.MigrationsDir,
		SeedData:      *seed || cfg.Database.SeedData,
	}, log)
	defer runner.Close()

	if *down {
		err = runner.Down()
	} else {
		err = runner.Up()
	}
	if err != nil {
		log.Fatal("MIGRATE", err.Error())
	}
	log.Info("MIGRATE", "✅ Done.")
}
