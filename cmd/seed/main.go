package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/storefront-backend/internal/seed"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	skipCatalog := flag.Bool("skip-catalog", false, "only ensure the admin account")
	runMigrations := flag.Bool("migrate", false, "apply pending migrations first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Fields:      map[string]string{"env": cfg.App.Env},
	})

	ctx := logg.WithField(context.Background(), "skip_catalog", *skipCatalog)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if *runMigrations {
		sqlDB, err := dbClient.DB().DB()
		if err == nil {
			err = migrate.Up(ctx, sqlDB, dbClient.Dialect())
		}
		if err != nil {
			logg.Error(ctx, "failed to run migrations", err)
			os.Exit(1)
		}
	}

	seeder, err := seed.NewSeeder(dbClient, cfg.Password, logg)
	if err != nil {
		logg.Error(ctx, "failed to create seeder", err)
		os.Exit(1)
	}

	opts := seed.OptionsFromConfig(cfg.Seed)
	opts.SkipCatalog = *skipCatalog

	res, err := seeder.Run(ctx, opts)
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	fmt.Printf("admin id=%d created=%t, products created=%d\n", res.AdminID, res.AdminCreated, res.ProductsCreated)
}
