package main

import (
	"context"
	"fmt"
	"os"

	"farmmarket/internal/config"
	"farmmarket/internal/logging"
	"farmmarket/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	verbose   bool
	staticDir string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "farmmarket",
		Short:         "Farm-to-customer produce marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(serveCmd(), migrateCmd(), versionCmd())
	return root
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			repo, _, err := openRepository(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Info("schema up to date")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "farmmarket %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
		},
	}
}

// setup loads configuration and builds the process logger
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	for _, warning := range cfg.Warnings {
		logger.Warn("ignored config value", zap.String("detail", warning))
	}
	return cfg, logger, nil
}

// openRepository connects to PostgreSQL. The AWS config is loaded only when
// something needs it and is returned for reuse; it is nil otherwise.
func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.PostgresRepository, *aws.Config, error) {
	var awsCfg *aws.Config
	if cfg.PostgreSQL.SecretARN != "" || cfg.StorageEnabled() || cfg.Notify.SMSEnabled {
		loaded, err := cfg.LoadAWS(ctx)
		if err != nil {
			return nil, nil, err
		}
		awsCfg = &loaded
	}

	var secrets config.SecretGetter
	if cfg.PostgreSQL.SecretARN != "" {
		secrets = secretsmanager.NewFromConfig(*awsCfg)
		logger.Info("reading database DSN from Secrets Manager", zap.String("secret_arn", cfg.PostgreSQL.SecretARN))
	}
	dsn, err := cfg.ResolveDSN(ctx, secrets)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve database DSN: %w", err)
	}

	repo, err := repository.NewPostgresRepository(dsn, cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to PostgreSQL")
	return repo, awsCfg, nil
}
