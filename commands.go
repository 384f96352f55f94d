package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/shiftlog/pkg/config"
	"github.com/ekaya-inc/shiftlog/pkg/database"
	"github.com/ekaya-inc/shiftlog/pkg/handlers"
	"github.com/ekaya-inc/shiftlog/pkg/logging"
	"github.com/ekaya-inc/shiftlog/pkg/mcp"
	"github.com/ekaya-inc/shiftlog/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

// annotationPersistentStorage marks commands that read the log written by a
// running server, which only a shared postgres store can provide.
const annotationPersistentStorage = "shiftlog/persistent-storage"

func requirePostgres(cfg *config.Config, command string) error {
	if cfg.Storage.Backend != config.StoragePostgres {
		return fmt.Errorf("%s requires storage.backend %q (got %q): a memory store starts empty in every process",
			command, config.StoragePostgres, cfg.Storage.Backend)
	}
	return nil
}

var persistentStorage = map[string]string{annotationPersistentStorage: "true"}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "shiftlog",
		Short:         "Shift handover log for process facilities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path (YAML)")

	// withApp loads config, builds the logger and wires storage before running fn.
	withApp := func(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
		cfg, err := config.LoadFrom(configPath, Version)
		if err != nil {
			return err
		}
		if cmd.Annotations[annotationPersistentStorage] == "true" {
			if err := requirePostgres(cfg, cmd.Name()); err != nil {
				return err
			}
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), a)
	}

	root.AddCommand(
		newServeCmd(withApp),
		newHandoverCmd(withApp),
		newReportCmd(withApp),
		newWeeklyCmd(withApp),
		newMigrateCmd(&configPath),
		newVersionCmd(),
	)
	return root
}

type appRunner func(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error

func newServeCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP and HTTP report server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return withApp(cmd, serve)
		},
	}
}

// newMux builds the HTTP routes: MCP at /mcp, JSON reports, health and metrics.
func newMux(a *app) http.Handler {
	mcpServer := mcp.NewServer("shiftlog", a.cfg.Version, a.logger.Named("mcp"))
	mcpServer.RegisterShiftlogTools(a.service, a.clock, a.cfg.Version)

	mux := http.NewServeMux()
	mux.Handle("/mcp", middleware.MCPRequestLogger(a.logger)(mcpServer.NewStreamableHTTPServer()))
	mux.Handle("GET /metrics", a.metrics.Handler())
	handlers.NewHealthHandler(a.cfg, a.pinger(), a.logger).RegisterRoutes(mux)
	handlers.NewReportHandler(a.service, a.logger.Named("reports")).RegisterRoutes(mux)

	return middleware.RequestLogger(a.logger)(mux)
}

func serve(ctx context.Context, a *app) error {
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           newMux(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("Starting shiftlog",
		zap.String("addr", srv.Addr),
		zap.String("version", a.cfg.Version),
		zap.String("facility", a.cfg.Facility.Name),
		zap.String("timezone", a.cfg.Facility.Timezone),
		zap.String("storage", a.cfg.Storage.Backend))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newHandoverCmd(withApp appRunner) *cobra.Command {
	var shift string
	cmd := &cobra.Command{
		Use:         "handover",
		Annotations: persistentStorage,
		Short:       "Print the handover summary for the current or given shift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.service.GenerateHandoverSummary(ctx, shift)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&shift, "shift", "", "Shift to summarize (day, afternoon, night)")
	return cmd
}

func newReportCmd(withApp appRunner) *cobra.Command {
	var shift string
	cmd := &cobra.Command{
		Use:         "report",
		Annotations: persistentStorage,
		Short:       "Print the report for the previous or given shift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.service.GetPreviousShiftReport(ctx, shift)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.FormattedReport)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&shift, "shift", "", "Shift to report on (day, afternoon, night)")
	return cmd
}

func newWeeklyCmd(withApp appRunner) *cobra.Command {
	var endingAt string
	cmd := &cobra.Command{
		Use:         "weekly",
		Annotations: persistentStorage,
		Short:       "Print the summary of the last seven days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var end *time.Time
			if endingAt != "" {
				t, err := time.Parse(time.RFC3339, endingAt)
				if err != nil {
					return fmt.Errorf("--ending-at must be RFC 3339: %w", err)
				}
				end = &t
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.service.GenerateWeeklySummary(ctx, end)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&endingAt, "ending-at", "", "End of the week window (RFC 3339, default now)")
	return cmd
}

// newMigrateCmd applies migrations without starting anything else.
func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFrom(*configPath, Version)
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg, cmd.Name()); err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			connStr := cfg.Database.ConnectionString()
			logger.Info("Migrating database", zap.String("url", logging.SanitizeConnectionString(connStr)))
			db, err := database.NewConnection(cmd.Context(), &database.Config{
				URL:            connStr,
				MaxConnections: cfg.Database.MaxConnections,
			})
			if err != nil {
				return err
			}
			defer db.Close()
			return database.MigratePool(db, logger)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shiftlog %s\n", Version)
		},
	}
}
