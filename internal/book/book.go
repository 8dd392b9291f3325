// Package book holds the shelf entity and the catalog search types it is
// mapped from.
package book

import (
	"strings"
	"time"
)

// ListSeparator joins author and category lists into display strings.
const ListSeparator = ", "

// Book is a shelved (or shelvable) book. Optional catalog fields are empty
// strings when the catalog did not provide them.
type Book struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Subtitle      string  `json:"subtitle,omitempty"`
	Authors       string  `json:"authors,omitempty"`
	Description   string  `json:"description,omitempty"`
	Categories    string  `json:"categories,omitempty"`
	SelfLink      string  `json:"selfLink,omitempty"`
	AverageRating float64 `json:"averageRating,omitempty"`
	RatingsCount  int64   `json:"ratingsCount,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`

	// AddedAt is set by the shelf store on insert; zero for unsaved books.
	AddedAt time.Time `json:"addedAt,omitzero"`
	// UpdatedAt is set by the shelf store on update.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Valid reports whether the book carries enough data to be shelved.
func (b Book) Valid() bool {
	return b.ID != "" && b.Title != ""
}

// SearchResult is one page of catalog matches.
type SearchResult struct {
	TotalItems int64
	Items      []SearchResultItem
}

// SearchResultItem is a catalog volume as returned by search and detail calls.
type SearchResultItem struct {
	ID         string
	SelfLink   string
	VolumeInfo VolumeInfo
}

type VolumeInfo struct {
	Title         string
	Subtitle      string
	Authors       []string
	Description   string
	Categories    []string
	ImageLinks    ImageLinks
	AverageRating float64
	RatingsCount  int64

	Publisher     string
	PublishedDate string
	PageCount     int64
}

// ImageLinks are the cover variants offered by the catalog.
type ImageLinks struct {
	ExtraLarge     string
	Large          string
	Medium         string
	Small          string
	Thumbnail      string
	SmallThumbnail string
}

// Preferred returns the largest non-empty variant, or "" when there is none.
func (l ImageLinks) Preferred() string {
	for _, link := range []string{l.ExtraLarge, l.Large, l.Medium, l.Small, l.Thumbnail, l.SmallThumbnail} {
		if link != "" {
			return link
		}
	}

	return ""
}

// ToBook maps a catalog item to a shelf entity.
func (item SearchResultItem) ToBook() Book {
	info := item.VolumeInfo

	return Book{
		ID:            item.ID,
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		Authors:       strings.Join(info.Authors, ListSeparator),
		Description:   info.Description,
		Categories:    strings.Join(info.Categories, ListSeparator),
		SelfLink:      item.SelfLink,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		ImageURL:      info.ImageLinks.Preferred(),
	}
}

// ToBooks maps every item of a search result, preserving order.
func (r SearchResult) ToBooks() []Book {
	books := make([]Book, 0, len(r.Items))
	for _, item := range r.Items {
		books = append(books, item.ToBook())
	}

	return books
}

// WithCatalogData returns b with every catalog field replaced by fresh's,
// keeping b's identity and shelf metadata.
func (b Book) WithCatalogData(fresh Book) Book {
	fresh.ID = b.ID
	fresh.AddedAt = b.AddedAt
	fresh.UpdatedAt = b.UpdatedAt

	return fresh
}
