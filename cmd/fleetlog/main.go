package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fleetlog/internal/config"
	"fleetlog/internal/core"
	"fleetlog/internal/fleet"
	apphttp "fleetlog/internal/http"
	"fleetlog/internal/i18n"
	applog "fleetlog/internal/log"
	"fleetlog/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	bundle, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		logger.Error("Failed to load locales", "error", err, "locale", cfg.DefaultLocale)
		os.Exit(1)
	}

	stores, err := buildStores(cfg)
	if err != nil {
		logger.Error("Failed to seed stores", "error", err, "seed_dir", cfg.SeedDir)
		os.Exit(1)
	}

	svc := fleet.NewService(stores.drivers, stores.vehicles, stores.trips,
		applog.New("fleet", logger.Handler()))

	srv := apphttp.NewServer(":"+cfg.Port, svc, bundle, cfg.RateLimitPerMinute)
	srv.ReadTimeout = cfg.ReadTimeout
	srv.WriteTimeout = cfg.WriteTimeout
	srv.IdleTimeout = cfg.IdleTimeout
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fleetlog server",
		"port", cfg.Port,
		"seed_dir", cfg.SeedDir,
		"locale", bundle.Locale(),
		"simulate_latency", cfg.SimulateLatency)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

type storeSet struct {
	drivers  *store.Store[core.Driver]
	vehicles *store.Store[core.Vehicle]
	trips    *store.Store[core.Trip]
}

// buildStores seeds the three record stores from fixture files, wiring
// the per-entity latency profiles unless disabled.
func buildStores(cfg *config.Config) (storeSet, error) {
	drivers, err := store.SeedDrivers(cfg.SeedDir)
	if err != nil {
		return storeSet{}, err
	}
	vehicles, err := store.SeedVehicles(cfg.SeedDir)
	if err != nil {
		return storeSet{}, err
	}
	trips, err := store.SeedTrips(cfg.SeedDir)
	if err != nil {
		return storeSet{}, err
	}

	driverLatency, vehicleLatency, tripLatency := store.Latency(store.None{}), store.Latency(store.None{}), store.Latency(store.None{})
	if cfg.SimulateLatency {
		driverLatency = store.DriverLatency()
		vehicleLatency = store.VehicleLatency()
		tripLatency = store.TripLatency()
	}

	return storeSet{
		drivers: store.New("driver", func(d *core.Driver) *core.Meta { return &d.Meta },
			store.WithRecords(drivers),
			store.WithLatency[core.Driver](driverLatency)),
		vehicles: store.New("vehicle", func(v *core.Vehicle) *core.Meta { return &v.Meta },
			store.WithRecords(vehicles),
			store.WithLatency[core.Vehicle](vehicleLatency)),
		trips: store.New("trip", func(t *core.Trip) *core.Meta { return &t.Meta },
			store.WithRecords(trips),
			store.WithLatency[core.Trip](tripLatency),
			store.WithClone(core.Trip.Clone)),
	}, nil
}
