package state

import "fmt"

// DescribeSearchbar renders s as a short label for logs and status lines.
func DescribeSearchbar(s Searchbar) string {
	switch v := s.(type) {
	case SearchbarEmpty:
		return "empty"
	case SearchbarText:
		return fmt.Sprintf("text %q", v.Query)
	case SearchbarImage:
		if v.Keywords != "" {
			return fmt.Sprintf("photo %s (%q)", v.Photo, v.Keywords)
		}

		return "photo " + v.Photo
	default:
		Unreachable(s)

		return ""
	}
}

// DescribeResults renders r as a short label for logs and status lines.
func DescribeResults(r Results) string {
	switch v := r.(type) {
	case ResultsEmpty:
		return "empty"
	case ResultsLoading:
		return "loading"
	case ResultsSuccess:
		if len(v.Books) == 0 {
			return "no results"
		}

		return fmt.Sprintf("%d results", len(v.Books))
	case ResultsError:
		return "error: " + v.Message
	default:
		Unreachable(r)

		return ""
	}
}

// DescribeDetails renders d as a short label for logs and status lines.
func DescribeDetails(d BookDetails) string {
	switch v := d.(type) {
	case DetailsLoading:
		return "loading"
	case DetailsError:
		return "error"
	case DetailsSuccess:
		if v.InShelf {
			return fmt.Sprintf("%q (on shelf)", v.Book.Title)
		}

		return fmt.Sprintf("%q", v.Book.Title)
	default:
		Unreachable(d)

		return ""
	}
}

// DescribeHome renders h as a short label for logs and status lines.
func DescribeHome(h Home) string {
	switch v := h.(type) {
	case HomeInit:
		return "init"
	case HomeShelf:
		return fmt.Sprintf("shelf (%d books)", len(v.Books))
	case HomeSearch:
		return "search"
	default:
		Unreachable(h)

		return ""
	}
}
