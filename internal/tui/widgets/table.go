// Package widgets holds reusable tview primitives.
package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kedare/bookworm/internal/book"
	"github.com/rivo/tview"
)

// BookRow turns a book into the cells displayed for it.
type BookRow func(b book.Book) []string

// BookTable is a selectable table of books that keeps the selected book
// across updates.
type BookTable struct {
	*tview.Table
	headers []string
	row     BookRow
}

// NewBookTable creates a table with a fixed header row.
func NewBookTable(headers []string, row BookRow) *BookTable {
	t := &BookTable{
		Table:   tview.NewTable(),
		headers: headers,
		row:     row,
	}

	t.SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0).
		SetSeparator(tview.Borders.Vertical)
	t.SetBorder(true)
	t.setHeaders()

	return t
}

func (t *BookTable) setHeaders() {
	for col, header := range t.headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorBlack).
			SetBackgroundColor(tcell.ColorDarkCyan).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(1)
		t.SetCell(0, col, cell)
	}
}

// SetBooks replaces the rows. The previously selected book stays selected
// when it is still present.
func (t *BookTable) SetBooks(books []book.Book) {
	selectedID := ""
	if selected, ok := t.SelectedBook(); ok {
		selectedID = selected.ID
	}

	t.ClearRows()

	selectedRow := 1
	for i, b := range books {
		row := i + 1
		for col, text := range t.row(b) {
			cell := tview.NewTableCell(text).
				SetTextColor(tcell.ColorWhite).
				SetAlign(tview.AlignLeft).
				SetReference(b).
				SetExpansion(1)
			t.SetCell(row, col, cell)
		}

		if b.ID == selectedID {
			selectedRow = row
		}
	}

	if len(books) > 0 {
		t.Select(selectedRow, 0)
	}
}

// ClearRows clears all rows except headers.
func (t *BookTable) ClearRows() {
	for row := t.GetRowCount() - 1; row > 0; row-- {
		t.RemoveRow(row)
	}
}

// SelectedBook returns the book on the selected row.
func (t *BookTable) SelectedBook() (book.Book, bool) {
	row, _ := t.GetSelection()
	if row <= 0 || row >= t.GetRowCount() {
		return book.Book{}, false
	}

	cell := t.GetCell(row, 0)
	if cell == nil {
		return book.Book{}, false
	}

	b, ok := cell.GetReference().(book.Book)

	return b, ok
}
