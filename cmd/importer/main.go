// Package main loads a JSON export of scraped listings and upserts them
// into the configured database.
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
	"github.com/atinyakov/carlot/internal/importer"
	"github.com/atinyakov/carlot/internal/logger"
	"github.com/atinyakov/carlot/internal/repository"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	input := fs.String("input", "cars.json", "path to the scraped listings file")
	skipExisting := fs.Bool("skip-existing", true, "leave listings with a known link untouched")

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

	f, err := os.Open(*input)
	if err != nil {
		zapLogger.Fatal("cannot open input", zap.String("path", *input), zap.Error(err))
	}
	listings, err := importer.Decode(f)
	f.Close()
	if err != nil {
		zapLogger.Fatal("cannot decode input", zap.String("path", *input), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	im := importer.New(repository.NewPostgresCarRepository(postgresDB), zapLogger)
	im.SkipExisting = *skipExisting

	if _, err := im.Run(ctx, listings); err != nil {
		zapLogger.Error("import stopped", zap.Error(err))
		os.Exit(1)
	}
}
