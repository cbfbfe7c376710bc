package main

import (
	"context"
	"fmt"
	"os"

	"clinic-scheduling-service/cmd/bootstrap"
	"clinic-scheduling-service/config"
	"clinic-scheduling-service/internal/delivery/http/middleware"
	"clinic-scheduling-service/internal/infrastructure/cache"
	"clinic-scheduling-service/internal/infrastructure/database/migrations"
	"clinic-scheduling-service/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic-scheduling",
		Short:        "Clinic appointment slot booking and queue service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		logrus.Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Initialize application with all dependencies
			app, err := bootstrap.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			return app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrations.Migrator) error {
				return m.Up()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the last applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrations.Migrator) error {
				return m.Down()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migrations.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(fn func(m *migrations.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := bootstrap.SetupLogger(cfg.App)

	m, err := migrations.NewMigrator(cfg.DB, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

// tokenCmd issues access tokens for staff tooling; login itself lives outside this service.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token bound to a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			userFlag, _ := cmd.Flags().GetString("user")
			tenantFlag, _ := cmd.Flags().GetString("tenant")
			email, _ := cmd.Flags().GetString("email")

			userID, err := uuid.Parse(userFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			tenantID, err := uuid.Parse(tenantFlag)
			if err != nil {
				return fmt.Errorf("invalid --tenant: %w", err)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			token, tokenID, err := jwt.NewJWTService(cfg.JWT).GenerateAccessToken(userID, tenantID, email)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token_id: %s\n", tokenID)
			fmt.Fprintf(out, "expires_in: %s\n", cfg.JWT.AccessExpiry)
			fmt.Fprintln(out, token)
			return nil
		},
	}
	issueCmd.Flags().String("user", "", "Staff user ID")
	issueCmd.Flags().String("tenant", "", "Tenant ID the token is scoped to")
	issueCmd.Flags().String("email", "", "Staff email")
	issueCmd.MarkFlagRequired("user")
	issueCmd.MarkFlagRequired("tenant")
	cmd.AddCommand(issueCmd)

	revokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke an access token by its token ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenID, _ := cmd.Flags().GetString("id")

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Redis.Host == "" {
				return fmt.Errorf("REDIS_HOST is not set, revocation needs the denylist store")
			}
			log := bootstrap.SetupLogger(cfg.App)

			ctx := context.Background()
			client, err := cache.NewRedisClient(ctx, cfg.Redis, log)
			if err != nil {
				return err
			}
			defer client.Close()

			// The key only has to outlive the token itself.
			ttl := jwt.NewJWTService(cfg.JWT).GetAccessExpiry()
			if err := client.Set(ctx, middleware.RevokedTokenKey(tokenID), "revoked", ttl).Err(); err != nil {
				return fmt.Errorf("failed to revoke token: %w", err)
			}

			log.WithField("token_id", tokenID).Info("Access token revoked")
			return nil
		},
	}
	revokeCmd.Flags().String("id", "", "Token ID printed by token issue")
	revokeCmd.MarkFlagRequired("id")
	cmd.AddCommand(revokeCmd)

	return cmd
}
