package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/shelf"
	"github.com/kedare/bookworm/internal/state"
	"github.com/pterm/pterm"
)

// NoResultsMessage is shown for a successful search without matches.
const NoResultsMessage = "No results"

// DisplayBooks renders books using the requested format.
// Supported formats:
//   - "json": raw JSON array of books
//   - "table": one row per book, truncated to the terminal width
//   - "text" (default): readable list with authors and rating
func DisplayBooks(w io.Writer, books []book.Book, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		if books == nil {
			books = []book.Book{}
		}

		return displayJSON(w, books)
	case FormatTable:
		return displayBooksTable(w, books, TerminalWidth())
	default:
		return displayBooksText(w, books)
	}
}

// Search state messages for the non-success variants.
const (
	EmptyQueryMessage = "Nothing to search: queries need more than three characters."
	LoadingMessage    = "Search still in progress."
)

type resultsJSON struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

// DisplayResults renders a search results state. Errors are printed, not
// returned; callers decide how a failed search ends the command. In JSON
// mode a success is the book array and every other state is a resultsJSON
// object.
func DisplayResults(w io.Writer, results state.Results, format string) error {
	var status resultsJSON

	switch v := results.(type) {
	case state.ResultsSuccess:
		return DisplayBooks(w, v.Books, format)
	case state.ResultsEmpty:
		status = resultsJSON{State: "empty", Message: EmptyQueryMessage}
	case state.ResultsLoading:
		status = resultsJSON{State: "loading", Message: LoadingMessage}
	case state.ResultsError:
		status = resultsJSON{State: "error", Message: v.Message}
	default:
		state.Unreachable(results)

		return nil
	}

	if strings.ToLower(format) == FormatJSON {
		return displayJSON(w, status)
	}

	if status.State == "error" {
		_, err := fmt.Fprintf(w, "Search failed: %s\n", status.Message)

		return err
	}

	_, err := fmt.Fprintln(w, status.Message)

	return err
}

type detailsJSON struct {
	Book    book.Book `json:"book"`
	InShelf bool      `json:"inShelf"`
}

// DisplayDetails renders a book details state.
func DisplayDetails(w io.Writer, details state.BookDetails, format string) error {
	switch v := details.(type) {
	case state.DetailsSuccess:
		if strings.ToLower(format) == FormatJSON {
			return displayJSON(w, detailsJSON{Book: v.Book, InShelf: v.InShelf})
		}

		return displayBookText(w, v.Book, v.InShelf)
	case state.DetailsLoading:
		_, err := fmt.Fprintln(w, "Book still loading.")

		return err
	case state.DetailsError:
		_, err := fmt.Fprintln(w, "Book could not be loaded.")

		return err
	default:
		state.Unreachable(details)

		return nil
	}
}

// DisplayShelfInfo renders database details.
func DisplayShelfInfo(w io.Writer, info *shelf.Info, format string) error {
	if strings.ToLower(format) == FormatJSON {
		return displayJSON(w, info)
	}

	lastOptimized := "never"
	if !info.LastOptimized.IsZero() {
		lastOptimized = info.LastOptimized.Format(time.RFC3339)
	}

	data := pterm.TableData{
		{"Path", info.Path},
		{"Size", formatBytes(info.SizeBytes)},
		{"Schema version", strconv.Itoa(info.SchemaVersion)},
		{"Books", strconv.FormatInt(info.BookCount, 10)},
		{"Last optimized", lastOptimized},
	}

	rendered, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render shelf info: %w", err)
	}

	_, err = fmt.Fprintln(w, rendered)

	return err
}

type refreshJSON struct {
	Total    int               `json:"total"`
	Updated  int               `json:"updated"`
	Failures map[string]string `json:"failures"`
}

// DisplayRefresh renders the outcome of a shelf refresh.
func DisplayRefresh(w io.Writer, result *shelf.RefreshResult, format string) error {
	if strings.ToLower(format) == FormatJSON {
		failures := make(map[string]string, len(result.Failures))
		for _, f := range result.Failures {
			failures[f.ID] = f.Err.Error()
		}

		return displayJSON(w, refreshJSON{Total: result.Total, Updated: result.Updated, Failures: failures})
	}

	if _, err := fmt.Fprintf(w, "Refreshed %d of %d book(s)\n", result.Updated, result.Total); err != nil {
		return err
	}

	for _, f := range result.Failures {
		if _, err := fmt.Fprintf(w, "  ✗ %s: %v\n", f.ID, f.Err); err != nil {
			return err
		}
	}

	return nil
}

func displayBooksTable(w io.Writer, books []book.Book, width int) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)

		return err
	}

	titleWidth := max(20, width*2/5)
	authorsWidth := max(15, width/4)

	data := pterm.TableData{{"ID", "Title", "Authors", "Rating"}}
	for _, b := range books {
		data = append(data, []string{
			b.ID,
			Truncate(b.Title, titleWidth),
			Truncate(b.Authors, authorsWidth),
			formatRating(b),
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render books table: %w", err)
	}

	_, err = fmt.Fprintln(w, rendered)

	return err
}

func displayBooksText(w io.Writer, books []book.Book) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)

		return err
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Found %d book(s):\n\n", len(books))

	for _, b := range books {
		fmt.Fprintf(&sb, "- %s\n", b.Title)
		fmt.Fprintf(&sb, "  ID:      %s\n", b.ID)

		if b.Authors != "" {
			fmt.Fprintf(&sb, "  Authors: %s\n", b.Authors)
		}

		if b.RatingsCount > 0 {
			fmt.Fprintf(&sb, "  Rating:  %s\n", formatRating(b))
		}

		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func displayBookText(w io.Writer, b book.Book, inShelf bool) error {
	var sb strings.Builder

	sb.WriteString(b.Title)

	if b.Subtitle != "" {
		sb.WriteString(": " + b.Subtitle)
	}

	sb.WriteString("\n")

	fields := []struct{ label, value string }{
		{"ID", b.ID},
		{"Authors", b.Authors},
		{"Categories", b.Categories},
		{"Rating", formatRating(b)},
		{"Cover", b.ImageURL},
		{"Link", b.SelfLink},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		fmt.Fprintf(&sb, "  %-11s %s\n", f.label+":", f.value)
	}

	shelved := "no"
	if inShelf {
		shelved = "yes"
	}

	fmt.Fprintf(&sb, "  %-11s %s\n", "On shelf:", shelved)

	if b.Description != "" {
		sb.WriteString("\n" + b.Description + "\n")
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatRating(b book.Book) string {
	if b.RatingsCount == 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f (%d)", b.AverageRating, b.RatingsCount)
}

func formatBytes(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
