package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"resourced/internal/config"
	"resourced/internal/httpapi"
	"resourced/internal/manager"
	"resourced/internal/registry"
	"resourced/internal/sysstats"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath           string
		addr              string
		resourcesDir      string
		manifestPath      string
		maxParallelLoads  int
		strategy          string
		logLevel          string
		housekeepInterval time.Duration
		pressureThreshold float64
	)

	root := &cobra.Command{
		Use:           "resourced",
		Short:         "Admission-controlled lifecycle manager for heavyweight in-process resources",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if cfgPath != "" {
				var err error
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			// Flags win over config file values when set explicitly.
			flagChanged := cmd.Flags().Changed
			if flagChanged("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if flagChanged("resources-dir") {
				cfg.ResourcesDir = resourcesDir
			}
			if flagChanged("manifest") {
				cfg.Manifest = manifestPath
			}
			if flagChanged("max-parallel-loads") || cfg.MaxParallelLoads == 0 {
				cfg.MaxParallelLoads = maxParallelLoads
			}
			if flagChanged("strategy") || cfg.BudgetStrategy == "" {
				cfg.BudgetStrategy = strategy
			}
			if flagChanged("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = logLevel
			}
			if flagChanged("housekeep-interval") || cfg.HousekeepSeconds == 0 {
				cfg.HousekeepSeconds = int(housekeepInterval.Seconds())
			}
			if flagChanged("pressure-threshold") || cfg.PressureThreshold == 0 {
				cfg.PressureThreshold = pressureThreshold
			}
			return run(cfg)
		},
	}

	root.Flags().StringVarP(&cfgPath, "config", "c", "", "Config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	root.Flags().StringVar(&resourcesDir, "resources-dir", "", "Directory to scan for resource payload files")
	root.Flags().StringVar(&manifestPath, "manifest", "", "YAML manifest of resources to register at startup")
	root.Flags().IntVar(&maxParallelLoads, "max-parallel-loads", 2, "Global bound on simultaneous resource loads")
	root.Flags().StringVar(&strategy, "strategy", "balanced", "Budget strategy: conservative|balanced|performance|dynamic")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level: trace|debug|info|warn|error")
	root.Flags().DurationVar(&housekeepInterval, "housekeep-interval", 30*time.Second, "Pressure monitor interval (0 disables)")
	root.Flags().Float64Var(&pressureThreshold, "pressure-threshold", 0.8, "Used-memory fraction that triggers an eviction pass")
	return root
}

func run(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)

	stats := sysstats.New()
	admission := manager.NewAdmissionController(manager.BudgetStrategy(cfg.BudgetStrategy))
	if cfg.SafetyFactor > 0 {
		admission.SafetyFactor = cfg.SafetyFactor
	}
	if cfg.UsageThreshold > 0 {
		admission.UsageThreshold = cfg.UsageThreshold
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Stats:            stats,
		Admission:        admission,
		MaxParallelLoads: cfg.MaxParallelLoads,
		Logger:           logger,
	})

	if cfg.ResourcesDir != "" {
		specs, err := registry.ScanDir(cfg.ResourcesDir)
		if err != nil {
			return fmt.Errorf("scan resources dir: %w", err)
		}
		if err := registry.RegisterAll(mgr, specs); err != nil {
			return err
		}
		logger.Info().Int("count", len(specs)).Str("dir", cfg.ResourcesDir).Msg("registered resources from directory")
	}
	if cfg.Manifest != "" {
		specs, err := registry.LoadManifest(cfg.Manifest)
		if err != nil {
			return fmt.Errorf("load manifest: %w", err)
		}
		if err := registry.RegisterAll(mgr, specs); err != nil {
			return err
		}
		logger.Info().Int("count", len(specs)).Str("manifest", cfg.Manifest).Msg("registered resources from manifest")
	}

	httpapi.SetLogger(logger)
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins)
	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HousekeepSeconds > 0 {
		interval := time.Duration(cfg.HousekeepSeconds) * time.Second
		go housekeep(ctx, mgr, stats, interval, cfg.PressureThreshold, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("resourced listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
