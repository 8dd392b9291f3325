package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kedare/bookworm/internal/controller"
	"github.com/kedare/bookworm/internal/output"
	"github.com/kedare/bookworm/internal/state"
	"github.com/spf13/cobra"
)

// errSearchFailed ends a command whose search finished in the error state.
var errSearchFailed = errors.New("search failed")

var searchCmd = &cobra.Command{
	Use:   "search <title...>",
	Short: "Search the catalog by title",
	Long: `Search the book catalog. All arguments are joined into one query.

Queries of three characters or fewer are not sent to the catalog.

Examples:
  bookworm search sapiens
  bookworm search the left hand of darkness -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var photoCmd = &cobra.Command{
	Use:   "photo <file>",
	Short: "Search the catalog by the text on a cover photo",
	Long: `Upload a photo of a book cover, detect the text printed on it and search
the catalog with the detected words.`,
	Args: cobra.ExactArgs(1),
	RunE: runPhoto,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(photoCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	client, err := newCatalogClient(ctx, appConfig)
	if err != nil {
		return err
	}

	c := controller.NewSearchController(ctx, client, newPhotoClient(ctx, appConfig))
	defer c.Close()

	spin := output.NewSpinner(fmt.Sprintf("Searching for %q", query))
	spin.Start()

	c.SetTextInput(query)
	c.Wait()

	if err := ctx.Err(); err != nil {
		spin.Fail("Search interrupted")

		return err
	}

	spin.Stop()

	return showSearch(cmd, c.State())
}

func runPhoto(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read photo: %w", err)
	}

	client, err := newCatalogClient(ctx, appConfig)
	if err != nil {
		return err
	}

	c := controller.NewSearchController(ctx, client, newPhotoClient(ctx, appConfig))
	defer c.Close()

	spin := output.NewSpinner("Reading cover " + path)
	spin.Start()

	c.ImageSearch(path)
	c.Wait()

	if err := ctx.Err(); err != nil {
		spin.Fail("Photo search interrupted")

		return err
	}

	snapshot := c.State()
	if image, ok := snapshot.Searchbar.(state.SearchbarImage); ok && image.Keywords != "" {
		spin.Info(fmt.Sprintf("Detected text: %s", image.Keywords))
	} else {
		spin.Stop()
	}

	return showSearch(cmd, snapshot)
}

func showSearch(cmd *cobra.Command, snapshot controller.SearchSnapshot) error {
	if err := output.DisplayResults(cmd.OutOrStdout(), snapshot.Results, outputFormat); err != nil {
		return err
	}

	if failed, ok := snapshot.Results.(state.ResultsError); ok {
		return fmt.Errorf("%w: %s", errSearchFailed, failed.Message)
	}

	return nil
}
