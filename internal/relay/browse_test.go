package relay_test

import (
	"fmt"
	"testing"

	"character-relay/internal/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(n int) []relay.Candidate {
	out := make([]relay.Candidate, n)
	for i := range out {
		out[i] = relay.Candidate{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Char %d", i)}
	}
	return out
}

func TestBrowserStartsAtTopOfFirstPage(t *testing.T) {
	b := relay.NewBrowser(candidates(25))
	assert.Equal(t, 1, b.Page())
	assert.Equal(t, 1, b.Row())
	assert.Equal(t, 3, b.Pages())
	assert.Len(t, b.PageItems(), 10)
	assert.False(t, b.Done())
}

func TestBrowserRowWrapsWithinPage(t *testing.T) {
	b := relay.NewBrowser(candidates(25))

	// up from row 1 wraps to the bottom of the page
	assert.Equal(t, relay.NavRerender, b.Navigate("up"))
	assert.Equal(t, 10, b.Row())

	// down from the bottom wraps back to 1
	assert.Equal(t, relay.NavRerender, b.Navigate("down"))
	assert.Equal(t, 1, b.Row())
}

func TestBrowserShortLastPage(t *testing.T) {
	b := relay.NewBrowser(candidates(25))
	require.Equal(t, relay.NavRerender, b.Navigate("left")) // wrap to page 3

	assert.Equal(t, 3, b.Page())
	assert.Equal(t, 1, b.Row())
	assert.Len(t, b.PageItems(), 5)

	// wrap stays inside the short page's bounds
	b.Navigate("up")
	assert.Equal(t, 5, b.Row())
	b.Navigate("down")
	assert.Equal(t, 1, b.Row())
}

func TestBrowserPageWrapsAndResetsRow(t *testing.T) {
	b := relay.NewBrowser(candidates(25))
	b.Navigate("down")
	require.Equal(t, 2, b.Row())

	b.Navigate("right")
	assert.Equal(t, 2, b.Page())
	assert.Equal(t, 1, b.Row(), "page change resets the row")

	b.Navigate("right")
	b.Navigate("right")
	assert.Equal(t, 1, b.Page(), "right wraps past the last page")

	b.Navigate("left")
	assert.Equal(t, 3, b.Page(), "left wraps past the first page")
}

func TestBrowserHighlightedFollowsCursor(t *testing.T) {
	b := relay.NewBrowser(candidates(25))
	b.Navigate("right")
	b.Navigate("down")
	b.Navigate("down")

	cand, ok := b.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "c12", cand.ID) // page 2, row 3
}

func TestBrowserTerminalAfterSelect(t *testing.T) {
	b := relay.NewBrowser(candidates(25))
	b.Navigate("down")
	b.Terminate()

	assert.True(t, b.Done())
	for _, action := range []string{"up", "down", "left", "right"} {
		assert.Equal(t, relay.NavDenied, b.Navigate(action))
	}

	// the committed candidate stays readable and stable
	cand, ok := b.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "c1", cand.ID)

	b.Terminate() // repeated select changes nothing
	again, ok := b.Highlighted()
	require.True(t, ok)
	assert.Equal(t, cand, again)
}

func TestBrowserEmptyResultSet(t *testing.T) {
	b := relay.NewBrowser(nil)
	assert.Equal(t, 0, b.Pages())
	assert.Equal(t, relay.NavDenied, b.Navigate("down"))
	_, ok := b.Highlighted()
	assert.False(t, ok)
}

func TestBrowserUnknownActionDenied(t *testing.T) {
	b := relay.NewBrowser(candidates(5))
	assert.Equal(t, relay.NavDenied, b.Navigate("sideways"))
	assert.Equal(t, 1, b.Row())
}
