// Package main creates the admin account and the sample listings in the
// configured database. It is safe to run more than once.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/atinyakov/carlot/internal/config"
	"github.com/atinyakov/carlot/internal/db"
	"github.com/atinyakov/carlot/internal/logger"
	"github.com/atinyakov/carlot/internal/repository"
	"github.com/atinyakov/carlot/internal/seed"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	password := fs.String("admin-password", seed.AdminEmail, "password for the admin account")

	options, err := config.ParseWith(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	zapLogger := log.Log
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	seeder := &seed.Seeder{
		Users: repository.NewPostgresUserRepository(postgresDB),
		Cars:  repository.NewPostgresCarRepository(postgresDB),
		Log:   zapLogger,
	}

	res, err := seeder.Run(ctx, *password)
	if err != nil {
		zapLogger.Fatal("seeding failed", zap.Error(err))
	}
	zapLogger.Info("seeding completed",
		zap.Bool("admin_created", res.AdminCreated),
		zap.Int("cars_created", res.CarsCreated),
	)
}
