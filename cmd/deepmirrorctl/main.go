package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deepmirror/internal/config"
	"deepmirror/internal/repository"
	"deepmirror/internal/service"
)

var verbose bool

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "deepmirrorctl",
		Short:         "Operational tooling for the deepmirror store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log in development mode")

	rootCmd.AddCommand(migrateCmd(), cleanupCmd(), resultCmd(), feedbackCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, store *repository.Store, logger *zap.Logger) error {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				fmt.Println("schema up to date")
				return nil
			})
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete feedback older than the retention window now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *repository.Store, logger *zap.Logger) error {
				svc := service.NewFeedbackCleanupService(logger, store.Feedback, service.Retention{Years: cfg.RetentionYears, Window: cfg.FeedbackTTL}, nil)
				report, err := svc.Run(ctx, time.Now())
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}
}

func resultCmd() *cobra.Command {
	resultRoot := &cobra.Command{
		Use:   "result",
		Short: "Inspect stored results",
	}
	resultRoot.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored result with its decoded facet scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, store *repository.Store, logger *zap.Logger) error {
				svc := service.NewResultService(logger, store.Results, nil)
				view, found, err := svc.View(ctx, args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("result %s not found", args[0])
				}
				return printJSON(view)
			})
		},
	})
	return resultRoot
}

func feedbackCmd() *cobra.Command {
	feedbackRoot := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect stored feedback",
	}
	feedbackRoot.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print how many feedback messages are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, store *repository.Store, _ *zap.Logger) error {
				n, err := store.Feedback.Count(ctx)
				if err != nil {
					return err
				}
				fmt.Println(n)
				return nil
			})
		},
	})
	return feedbackRoot
}

func withStore(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, store *repository.Store, logger *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadStoreConfig()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}
	defer logger.Sync()

	store, err := repository.OpenStore(ctx, cfg, 0, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, cfg, store, logger)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
