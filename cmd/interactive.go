package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kedare/bookworm/internal/config"
	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/tui"
	"github.com/spf13/cobra"
)

// LogFileName receives log output while the terminal UI owns the screen.
const LogFileName = "bookworm.log"

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"ui"},
	Short:   "Launch the interactive terminal interface",
	Long: `Start the terminal UI: browse the shelf, search the catalog as you type,
search by cover photo and open a book to add it to or remove it from the shelf.

Logs are written to ` + LogFileName + ` next to the shelf database.

Press '?' at any time outside the search bar to see keyboard shortcuts.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openShelf(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeShelf(store)

	catalogClient, err := newCatalogClient(ctx, appConfig)
	if err != nil {
		return err
	}

	restore, err := redirectLogs(appConfig)
	if err != nil {
		return err
	}
	defer restore()

	app := tui.NewApp(ctx, &tui.Config{
		Catalog: catalogClient,
		Photos:  newPhotoClient(ctx, appConfig),
		Shelf:   store,
	})

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// redirectLogs sends log output to a file beside the database until the
// returned function is called.
func redirectLogs(cfg *config.Config) (func(), error) {
	path := filepath.Join(filepath.Dir(cfg.DBPath), LogFileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger.RedirectTo(f)
	logger.Log.Infof("Terminal UI started, shelf at %s", cfg.DBPath)

	return func() {
		logger.RedirectTo(os.Stderr)
		_ = f.Close()
	}, nil
}
