package main

import (
	"fmt"
	"time"

	"starships-server/internal/auth"
	"starships-server/internal/middleware"
	"starships-server/internal/seed"
	"starships-server/internal/server"
	"starships-server/internal/shared/config"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !skipMigrations {
				if err := a.db.RunMigrations(ctx); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
			}

			limiter := middleware.NewRateLimiter(a.config.RateLimit, a.logger)
			if a.config.RateLimit.Enabled {
				go limiter.Run(ctx, time.Minute)
			}

			authenticator := middleware.NewAuthenticator(a.config.Auth.JWTSecret, a.logger)
			mux := server.NewRoutes(a.db, a.classService, a.starshipService, authenticator, a.logger).Setup()

			srv := server.New(a.config.Server, server.Handler(a.config, mux, limiter, a.logger), a.logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "start without applying pending migrations")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return a.db.RunMigrations(cmd.Context())
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load starship classes and starships from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.db.RunMigrations(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			result, err := seed.NewSeeder(a.classService, a.starshipService, a.logger).LoadFile(ctx, file)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %d classes and %d starships, skipped %d existing\n",
				result.ClassesCreated, result.StarshipsCreated, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "fixtures/seed.yaml", "fixture file to load")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var subject, role, secret string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a JWT for the write routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			token, err := auth.IssueToken(secret, subject, role, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION_HOURS)")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if secret == "" {
			secret = cfg.Auth.JWTSecret
		}
		if ttl == 0 {
			ttl = cfg.Auth.TokenExpiration
		}
		return nil
	}
	return cmd
}
