package tui

import (
	"fmt"
	"strings"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/controller"
	"github.com/kedare/bookworm/internal/output"
	"github.com/kedare/bookworm/internal/state"
	"github.com/rivo/tview"
)

const (
	titleWidth   = 48
	authorsWidth = 32
)

// homeContent is what the home page shows for a pair of states.
type homeContent struct {
	title   string
	books   []book.Book
	message string
}

func buildHomeContent(home state.Home, search state.Searchbar, results state.Results) homeContent {
	switch v := home.(type) {
	case state.HomeInit:
		return homeContent{title: " Shelf ", message: "[gray]Loading shelf…[-]"}
	case state.HomeShelf:
		content := homeContent{title: fmt.Sprintf(" Shelf (%d) ", len(v.Books)), books: v.Books}
		if len(v.Books) == 0 {
			content.message = "[gray]Your shelf is empty. Type a title to search the catalog.[-]"
		}

		return content
	case state.HomeSearch:
		return searchContent(search, results)
	default:
		state.Unreachable(home)

		return homeContent{}
	}
}

func searchContent(search state.Searchbar, results state.Results) homeContent {
	title := " Search "
	if label := searchbarLabel(search); label != "" {
		title = " Search: " + tview.Escape(label) + " "
	}

	switch v := results.(type) {
	case state.ResultsEmpty:
		return homeContent{title: title, message: fmt.Sprintf("[gray]Type more than %d characters to search.[-]", controller.MinQueryLength)}
	case state.ResultsLoading:
		return homeContent{title: title, message: "[yellow]Searching…[-]"}
	case state.ResultsError:
		return homeContent{title: title, message: "[red]" + tview.Escape(v.Message) + "[-]  [gray]<^R> Retry[-]"}
	case state.ResultsSuccess:
		content := homeContent{title: fmt.Sprintf("%s(%d) ", title, len(v.Books)), books: v.Books}
		if len(v.Books) == 0 {
			content.message = "[gray]" + output.NoResultsMessage + "[-]"
		}

		return content
	default:
		state.Unreachable(results)

		return homeContent{}
	}
}

func searchbarLabel(search state.Searchbar) string {
	switch v := search.(type) {
	case state.SearchbarEmpty:
		return ""
	case state.SearchbarText:
		return v.Query
	case state.SearchbarImage:
		if v.Keywords == "" {
			return "photo " + v.Photo
		}

		return fmt.Sprintf("photo %s (%s)", v.Photo, v.Keywords)
	default:
		state.Unreachable(search)

		return ""
	}
}

func bookCells(b book.Book) []string {
	rating := "-"
	if b.RatingsCount > 0 {
		rating = fmt.Sprintf("%.1f", b.AverageRating)
	}

	return []string{
		tview.Escape(output.Truncate(b.Title, titleWidth)),
		tview.Escape(output.Truncate(b.Authors, authorsWidth)),
		rating,
	}
}

func detailsText(details state.BookDetails) string {
	switch v := details.(type) {
	case state.DetailsLoading:
		return "\n[yellow]Loading book…[-]"
	case state.DetailsError:
		return "\n[red]This book could not be loaded.[-]"
	case state.DetailsSuccess:
		return successText(v)
	default:
		state.Unreachable(details)

		return ""
	}
}

func successText(v state.DetailsSuccess) string {
	b := v.Book

	var sb strings.Builder

	sb.WriteString("[aqua::b]" + tview.Escape(b.Title) + "[-::-]\n")

	if b.Subtitle != "" {
		sb.WriteString("[white]" + tview.Escape(b.Subtitle) + "[-]\n")
	}

	sb.WriteString("\n")

	fields := []struct{ label, value string }{
		{"Authors", b.Authors},
		{"Categories", b.Categories},
		{"Cover", b.ImageURL},
	}

	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(&sb, "[yellow]%-11s[-] %s\n", f.label, tview.Escape(f.value))
		}
	}

	if b.RatingsCount > 0 {
		fmt.Fprintf(&sb, "[yellow]%-11s[-] %.1f (%d ratings)\n", "Rating", b.AverageRating, b.RatingsCount)
	}

	if v.InShelf {
		sb.WriteString("\n[green]✓ On your shelf[-]  [gray]<d> Remove[-]\n")
	} else {
		sb.WriteString("\n[gray]Not on your shelf  <a> Add[-]\n")
	}

	if b.Description != "" {
		sb.WriteString("\n" + tview.Escape(b.Description) + "\n")
	}

	return sb.String()
}
