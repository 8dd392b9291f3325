package cmd

import (
	"errors"
	"fmt"

	"github.com/kedare/bookworm/internal/controller"
	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/output"
	"github.com/kedare/bookworm/internal/shelf"
	"github.com/kedare/bookworm/internal/state"
	"github.com/spf13/cobra"
)

var errBookUnavailable = errors.New("book could not be loaded")

var refreshConcurrency int

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a book, from the shelf when it is shelved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDetail(cmd, args[0], func(*controller.DetailController) error { return nil })
	},
}

var shelfCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Manage the local shelf",
	Long:  "List, add, remove and refresh the books kept in the local shelf database.",
}

var shelfListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List shelved books, most recently added first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openShelf(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer closeShelf(store)

		books, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		return output.DisplayBooks(cmd.OutOrStdout(), books, outputFormat)
	},
}

var shelfAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a catalog book to the shelf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDetail(cmd, args[0], func(c *controller.DetailController) error {
			if err := c.AddBook(cmd.Context()); err != nil {
				return err
			}

			logger.Log.Infof("Added %s to the shelf", args[0])

			return nil
		})
	},
}

var shelfRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a book from the shelf",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDetail(cmd, args[0], func(c *controller.DetailController) error {
			if err := c.RemoveBook(cmd.Context()); err != nil {
				return err
			}

			logger.Log.Infof("Removed %s from the shelf", args[0])

			return nil
		})
	},
}

var shelfRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch every shelved book from the catalog",
	Long: `Look up every shelved book in the catalog again and update its title,
authors, rating and cover. Books the catalog no longer knows are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openShelf(ctx, appConfig)
		if err != nil {
			return err
		}
		defer closeShelf(store)

		client, err := newCatalogClient(ctx, appConfig)
		if err != nil {
			return err
		}

		spin := output.NewSpinner("Refreshing shelf")
		spin.Start()

		result, err := store.Refresh(ctx, client, refreshConcurrency, func(done, total int, _ string, _ error) {
			spin.Update(fmt.Sprintf("Refreshing shelf (%d/%d)", done, total))
		})
		if err != nil {
			spin.Fail("Refresh failed")

			return err
		}

		spin.Stop()

		return output.DisplayRefresh(cmd.OutOrStdout(), result, outputFormat)
	},
}

// withDetail loads id through a detail controller, runs fn on it and prints
// the resulting state.
func withDetail(cmd *cobra.Command, id string, fn func(*controller.DetailController) error) error {
	ctx := cmd.Context()

	store, err := openShelf(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeShelf(store)

	client, err := newCatalogClient(ctx, appConfig)
	if err != nil {
		return err
	}

	c := controller.NewDetailController(ctx, client, store)
	defer c.Close()

	c.LoadBook(id)
	c.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, ok := c.State().(state.DetailsError); ok {
		return fmt.Errorf("%w: %s", errBookUnavailable, id)
	}

	if err := fn(c); err != nil {
		return err
	}

	return output.DisplayDetails(cmd.OutOrStdout(), c.State(), outputFormat)
}

func init() {
	shelfRefreshCmd.Flags().IntVar(&refreshConcurrency, "concurrency", shelf.DefaultRefreshConcurrency, "Number of catalog lookups to run in parallel")

	shelfCmd.AddCommand(shelfListCmd, shelfAddCmd, shelfRemoveCmd, shelfRefreshCmd)
	rootCmd.AddCommand(showCmd, shelfCmd)
}
