package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/audit"
	"github.com/doodlesbykumbi/blog-in-go/pkg/config"
	"github.com/doodlesbykumbi/blog-in-go/pkg/db"
	"github.com/doodlesbykumbi/blog-in-go/pkg/logger"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store/disk"
	gormstore "github.com/doodlesbykumbi/blog-in-go/pkg/server/store/gorm"
)

const shutdownTimeout = 30 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the blog API server",
	Long: `Run the blog API server.

The server requires DATABASE_URL and BLOG_JWT_SECRET (or their blog.yml
equivalents). By default, database migrations are run on startup. Use
--no-migrate to skip.

With --watch-config the config file is watched and a changed log_level is
applied without a restart.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port (overrides config)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides config)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload the log level when the config file changes")
}

func runServer(cmd *cobra.Command) error {
	cfg, err := config.Reload()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if host, _ := cmd.Flags().GetString("bind-address"); host != "" {
		cfg.BindAddress = host
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		log.Info("Running database migrations")
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, Logger: log.Logger})
	if err != nil {
		return err
	}

	files, err := disk.NewFilesStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	s, err := server.NewServer(cfg, log, database, server.Stores{
		Users:  gormstore.NewUsersStore(database),
		Blogs:  gormstore.NewBlogsStore(database),
		Files:  files,
		Health: gormstore.NewHealthStore(database),
	})
	if err != nil {
		return err
	}
	endpoints.RegisterAll(s)

	if audit.IsEnabled() {
		log.Info("Audit logging enabled", zap.Bool("persisted", os.Getenv("AUDIT_DATABASE_URL") != ""))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
		go watchConfig(ctx, cfg.ConfigFilePath(), log)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func watchConfig(ctx context.Context, path string, log *logger.Logger) {
	log.Info("Watching config file", zap.String("path", path))
	err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("Config reload failed", zap.Error(err))
			return
		}
		if err := log.SetLevel(cfg.LogLevel); err != nil {
			log.Warn("Ignoring invalid log level", zap.Error(err))
			return
		}
		log.Info("Config reloaded", zap.String("log_level", cfg.LogLevel))
	})
	if err != nil {
		log.Error("Config watch stopped", zap.Error(err))
	}
}
