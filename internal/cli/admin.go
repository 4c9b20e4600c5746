package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/resto-menu-api/internal/service"
	"github.com/noah-isme/resto-menu-api/migrations"
	"github.com/noah-isme/resto-menu-api/pkg/config"
	"github.com/noah-isme/resto-menu-api/pkg/database"
)

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply the embedded database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx := cmd.Context()
			db, err := database.NewPostgres(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			migrator, err := database.NewMigrator(db.DB, migrations.FS, cfg.Database.MigrationsDir, opts.logger())
			if err != nil {
				return err
			}
			switch args[0] {
			case "up":
				return migrator.Up(ctx)
			case "down":
				return migrator.Down(ctx)
			default:
				version, err := migrator.Version(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), version)
				return err
			}
		},
	}
	return cmd
}

func newTokenCommand(opts *globalOptions) *cobra.Command {
	var (
		tenantID string
		subject  string
		secret   string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a tenant bearer token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				secret = cfg.JWT.Secret
			}
			token, err := service.NewTenantTokenService(secret).Issue(tenantID, subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant ID")
	cmd.Flags().StringVar(&subject, "subject", "menuctl", "token subject")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
