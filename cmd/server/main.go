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

	"itam-backend/internal/config"
	"itam-backend/internal/database"
	"itam-backend/internal/events"
	"itam-backend/internal/logging"
	"itam-backend/internal/models"
	"itam-backend/internal/server"
	"itam-backend/internal/storage"
	"itam-backend/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

const serviceName = "itam-backend"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "itam",
		Short:         "IT asset inventory backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
					return database.Migrate(ctx, db)
				})
			},
		},
		newSeedCommand(),
		newCreateSuperuserCommand(),
	)
	return cmd
}

func newSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load areas and schools (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := database.DefaultSeed
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read seed file: %w", err)
				}
				data = raw
			}
			return withDB(cmd.Context(), func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
				if err := database.Migrate(ctx, db); err != nil {
					return err
				}
				return database.Seed(ctx, db, data)
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML directory file (defaults to the embedded BPK PENABUR list)")
	return cmd
}

func newCreateSuperuserCommand() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
				if err := database.Migrate(ctx, db); err != nil {
					return err
				}
				user, err := database.CreateUser(ctx, db, email, password, name, models.RoleAdmin)
				if err != nil {
					return err
				}
				log.Info().Uint("id", user.ID).Str("email", user.Email).Msg("superuser created")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

func withDB(ctx context.Context, fn func(context.Context, *config.Config, *gorm.DB) error) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	db, err := database.Connect(ctx, cfg.DBDSN, logging.NewGormLogger())
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(ctx, cfg, db)
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, cfg.DBDSN, logging.NewGormLogger())
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := bootstrap(ctx, cfg, db); err != nil {
		return err
	}

	deps := server.Deps{DB: db}
	if cfg.NATSURL != "" {
		pub, err := events.Connect(cfg.NATSURL)
		if err != nil {
			// журнал в БД остаётся источником правды, события опциональны
			log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("nats unavailable, audit events disabled")
		} else {
			defer pub.Close()
			deps.Notifier = pub
		}
	}
	if cfg.S3.Enabled() {
		store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return err
		}
		deps.Store = store
	} else {
		deps.Store = storage.NewLocalStore(cfg.UploadDir, server.UploadsPrefix)
	}

	router := server.NewRouter(cfg, server.NewHandler(cfg, deps))
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	return nil
}

// bootstrap prepares a fresh database: schema, school directory and the first admin.
func bootstrap(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	if err := database.Seed(ctx, db, database.DefaultSeed); err != nil {
		return err
	}
	if err := database.EnsureAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		return err
	}
	if cfg.SeedDemoUsers {
		database.SeedDemoUsers(ctx, db)
	}
	return nil
}
