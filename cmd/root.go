// Package cmd provides the command-line interface for bookworm
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kedare/bookworm/internal/config"
	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/output"
	"github.com/spf13/cobra"
)

var (
	logLevel     string
	dbPath       string
	envFile      string
	outputFormat string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bookworm",
	Short: "Search books and keep a local shelf",
	Long: `Search the book catalog by title or by a photo of a cover, and keep the
books you care about on a local shelf.

Run without a subcommand's arguments to see help, or use "bookworm ui" for
the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.SetLevel(logLevel); err != nil {
			return fmt.Errorf("invalid log level '%s': %w", logLevel, err)
		}

		logger.Log.Debugf("Log level set to: %s", logLevel)

		cfg, err := config.Load(envFiles()...)
		if err != nil {
			return err
		}

		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		output.SetFormat(outputFormat)
		appConfig = cfg

		return nil
	},
}

func Execute() error {
	return ExecuteContext(context.Background())
}

func ExecuteContext(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	return rootCmd.ExecuteContext(ctx)
}

// envFiles lists the .env files to load, most specific first. godotenv
// never overrides a variable that is already set, so earlier files win.
func envFiles() []string {
	if envFile != "" {
		return []string{envFile}
	}

	files := []string{config.EnvFileName}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, config.DataDir, config.EnvFileName))
	}

	return files
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set the logging level (trace, debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path of the shelf database (overrides "+config.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load configuration from this .env file instead of the defaults")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", output.DefaultFormat(output.FormatTable, output.Formats), "Output format: table, text, json")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return output.Formats, cobra.ShellCompDirectiveNoFileComp
	})
}
