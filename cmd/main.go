package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"coworkops/internal/config"
	"coworkops/internal/logging"
	"coworkops/internal/models"
	"coworkops/internal/repositories"
	"coworkops/internal/services"
	"coworkops/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "coworkops",
		Short:         "Coworking back office: stock, transfers, attendance and room bookings",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML/TOML/JSON config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and background jobs",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := bootstrap(configPath)
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
				return serve(cmd.Context(), cfg, logger)
			},
		},
		newMigrateCmd(&configPath),
		newCreateAdminCmd(&configPath),
	)
	return root
}

func newMigrateCmd(configPath *string) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pool, err := database.NewPool(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if status {
				return database.MigrationStatus(cmd.Context(), pool)
			}
			return database.Migrate(cmd.Context(), pool, logger)
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "print migration status instead of migrating")
	return cmd
}

func newCreateAdminCmd(configPath *string) *cobra.Command {
	var req services.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pool, err := database.NewPool(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			audit := services.NewAuditLogsService(repositories.NewAuditLogsRepo(pool))
			users := services.NewUserService(repositories.NewUserRepo(pool), audit, logger)

			req.Role = models.RoleAdmin
			user, err := users.Create(cmd.Context(), nil, &req)
			if err != nil {
				return err
			}
			logger.Info("administrator created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "administrator email")
	cmd.Flags().StringVar(&req.Password, "password", "", "administrator password")
	cmd.Flags().StringVar(&req.FullName, "name", "Administrator", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

