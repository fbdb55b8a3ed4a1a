package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/inventory/internal/application"
	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/exporter"
	"github.com/JonMunkholm/inventory/internal/importer"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "inventory",
		Short:         "Track products from a CSV file in a local database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "inventory:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logOut, err := logging.OpenOutput(cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("open log output: %w", err)
	}
	defer logOut.Close()
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logOut)

	slog.Info("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	driver := store.DriverSQLite
	if cfg.Database.UsesPostgres() {
		driver = store.DriverPostgres
	}

	st, err := store.Open(ctx, store.Options{
		Driver:  driver,
		Path:    cfg.Database.Path,
		URL:     cfg.Database.URL,
		Timeout: cfg.Database.Timeout,
	})
	if err != nil {
		return err
	}
	defer st.Close()
	slog.Info("connected to database", "driver", st.DriverName())

	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go exitOnSignal(sigCh, os.Exit, st, logOut)

	im := importer.New(st, cfg.Files.Inventory)
	if _, err := im.Run(ctx); err != nil {
		return fmt.Errorf("initial import: %w", err)
	}

	ex := exporter.New(st, cfg.Files.Backup, cfg.Files.BackupXLSX)

	sess := application.New(st, im, ex, os.Stdin, os.Stdout,
		application.WithClear(application.ClearScreen(os.Stdout)),
	)
	return sess.Run(ctx)
}
