package relay

import "sync"

// Candidate is one row of a character search result.
type Candidate struct {
	ID   string
	Name string
}

// NavResult classifies the outcome of one browser action.
type NavResult int

const (
	NavDenied NavResult = iota
	NavRerender
	NavSelected
)

const browsePageSize = 10

// Browser is the paginated cursor over one search's results. The process
// keeps at most one live browser; a new search replaces it wholesale. Page
// and row are 1-based. Once a selection is committed the browser is terminal
// and every further action is denied, but the committed candidate stays
// readable. Safe for concurrent use.
type Browser struct {
	mu       sync.Mutex
	items    []Candidate
	page     int
	row      int
	selected int
	done     bool
}

// NewBrowser starts browsing at page 1, row 1.
func NewBrowser(items []Candidate) *Browser {
	return &Browser{items: items, page: 1, row: 1, selected: -1}
}

// Pages returns the page count (0 when the result set is empty).
func (b *Browser) Pages() int {
	return (len(b.items) + browsePageSize - 1) / browsePageSize
}

// Page returns the current 1-based page.
func (b *Browser) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// Row returns the current 1-based row within the page.
func (b *Browser) Row() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.row
}

// Done reports whether a selection has been committed.
func (b *Browser) Done() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// PageItems returns the candidates on the current page, for rendering.
func (b *Browser) PageItems() []Candidate {
	b.mu.Lock()
	defer b.mu.Unlock()
	lo := (b.page - 1) * browsePageSize
	hi := lo + b.rowsOnPage()
	return b.items[lo:hi]
}

func (b *Browser) rowsOnPage() int {
	tail := len(b.items) - (b.page-1)*browsePageSize
	if tail > browsePageSize {
		return browsePageSize
	}
	return tail
}

// Navigate applies one directional action. Up and down wrap within the
// current page, left and right wrap across pages and reset the row to 1.
// Anything else, an empty result set, or a terminal browser is denied.
func (b *Browser) Navigate(action string) NavResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done || len(b.items) == 0 {
		return NavDenied
	}

	maxRow := b.rowsOnPage()
	switch action {
	case "up":
		if b.row == 1 {
			b.row = maxRow
		} else {
			b.row--
		}
	case "down":
		if b.row >= maxRow {
			b.row = 1
		} else {
			b.row++
		}
	case "left":
		b.row = 1
		if b.page == 1 {
			b.page = b.Pages()
		} else {
			b.page--
		}
	case "right":
		b.row = 1
		if b.page == b.Pages() {
			b.page = 1
		} else {
			b.page++
		}
	default:
		return NavDenied
	}
	return NavRerender
}

// Highlighted returns the candidate under the cursor, or the committed one
// once the browser is terminal, so a repeated select can never resolve a
// different character than the first.
func (b *Browser) Highlighted() (Candidate, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return Candidate{}, false
	}
	idx := b.selected
	if !b.done {
		idx = (b.page-1)*browsePageSize + b.row - 1
	}
	if idx < 0 || idx >= len(b.items) {
		return Candidate{}, false
	}
	return b.items[idx], true
}

// Terminate commits the highlighted row and ends browsing. Called only after
// the candidate resolved successfully; an unresolvable candidate leaves the
// browser alive.
func (b *Browser) Terminate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.selected = (b.page-1)*browsePageSize + b.row - 1
	b.done = true
}
