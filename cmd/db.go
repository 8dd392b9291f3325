package cmd

import (
	"fmt"
	"time"

	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/output"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and maintain the shelf database",
}

var dbInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show shelf database information",
	Long:  "Display the database path, size, schema version, number of shelved books and when it was last optimized.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openShelf(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer closeShelf(store)

		info, err := store.Info(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read shelf info: %w", err)
		}

		return output.DisplayShelfInfo(cmd.OutOrStdout(), info, outputFormat)
	},
}

var dbOptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize the shelf database",
	Long:  "Run database maintenance (VACUUM and ANALYZE) to reclaim disk space and update query statistics.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openShelf(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer closeShelf(store)

		logger.Log.Info("Running database optimization...")

		result, err := store.Optimize(cmd.Context())
		if err != nil {
			return fmt.Errorf("optimization failed: %w", err)
		}

		logger.Log.Info("Database optimization completed")
		logger.Log.Infof("  Size before: %d bytes", result.SizeBefore)
		logger.Log.Infof("  Size after:  %d bytes", result.SizeAfter)

		switch saved := result.SpaceSaved(); {
		case saved > 0:
			logger.Log.Infof("  Space saved: %d bytes", saved)
		case saved == 0:
			logger.Log.Info("  Space saved: (no change)")
		default:
			logger.Log.Infof("  Size increased: %d bytes", -saved)
		}

		logger.Log.Infof("  Duration:    %v", result.Duration.Round(time.Millisecond))

		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbInfoCmd, dbOptimizeCmd)
	rootCmd.AddCommand(dbCmd)
}
