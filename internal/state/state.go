// Package state defines the view states published by the controllers. Each
// state is a closed set of variants: an interface with an unexported marker
// method, implemented only by the structs in this file.
package state

import (
	"fmt"

	"github.com/kedare/bookworm/internal/book"
)

// NoMatchesMessage is shown when a photo yields no detected text.
const NoMatchesMessage = "No matches found"

// Searchbar is what the search box currently holds.
type Searchbar interface {
	isSearchbar()
}

// SearchbarEmpty means nothing has been typed or attached.
type SearchbarEmpty struct{}

// SearchbarText holds free-text input.
type SearchbarText struct {
	Query string
}

// SearchbarImage holds a local photo reference and, once detection has
// finished, the keywords extracted from it.
type SearchbarImage struct {
	Photo    string
	Keywords string
}

func (SearchbarEmpty) isSearchbar() {}
func (SearchbarText) isSearchbar()  {}
func (SearchbarImage) isSearchbar() {}

// Results is what the results area shows.
type Results interface {
	isResults()
}

// ResultsEmpty means no search has been requested.
type ResultsEmpty struct{}

// ResultsLoading means a query or photo pipeline is running.
type ResultsLoading struct{}

// ResultsSuccess holds the mapped books; an empty slice means no matches.
type ResultsSuccess struct {
	Books []book.Book
}

// ResultsError carries the failure detail shown to the user.
type ResultsError struct {
	Message string
}

func (ResultsEmpty) isResults()   {}
func (ResultsLoading) isResults() {}
func (ResultsSuccess) isResults() {}
func (ResultsError) isResults()   {}

// BookDetails is the detail view of one book.
type BookDetails interface {
	isBookDetails()
}

// DetailsLoading is the state before a lookup resolves.
type DetailsLoading struct{}

// DetailsError means the book could not be resolved.
type DetailsError struct{}

// DetailsSuccess is a resolved book and whether it is shelved.
type DetailsSuccess struct {
	Book    book.Book
	InShelf bool
}

// IsValid reports whether the payload can be added to or removed from the shelf.
func (s DetailsSuccess) IsValid() bool {
	return s.Book.Valid()
}

func (DetailsLoading) isBookDetails() {}
func (DetailsError) isBookDetails()   {}
func (DetailsSuccess) isBookDetails() {}

// Home is the top-level screen: the shelf or the search overlay.
type Home interface {
	isHome()
}

// HomeInit is shown until the first shelf snapshot arrives.
type HomeInit struct{}

// HomeShelf lists the shelved books, newest first.
type HomeShelf struct {
	Books []book.Book
}

// HomeSearch means the search overlay replaces the shelf.
type HomeSearch struct{}

func (HomeInit) isHome()   {}
func (HomeShelf) isHome()  {}
func (HomeSearch) isHome() {}

// Unreachable panics for a variant outside the closed set. Type switches
// over the state interfaces call it from their default branch.
func Unreachable(v any) {
	panic(fmt.Sprintf("state: unexpected variant %T", v))
}
