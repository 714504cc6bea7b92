// Package browser abstracts headless-browser page access behind a small
// Session interface so navigation logic can be tested without Chrome.
package browser

import "context"

// Session is a live browser page. All operations honor the deadline on the
// passed context; a missing element is reported by the operation's own
// semantics (empty result, false, or a timeout error), never a panic.
type Session interface {
	// Navigate loads the URL and waits for the document to become ready.
	Navigate(ctx context.Context, url string) error

	// BodyText returns the visible text of the document body.
	BodyText(ctx context.Context) (string, error)

	// Text returns the text content of the first element matching selector,
	// waiting for the element to appear until the context deadline.
	Text(ctx context.Context, selector string) (string, error)

	// Texts returns the text content of every element matching selector
	// without waiting; no matches yields an empty slice.
	Texts(ctx context.Context, selector string) ([]string, error)

	// Attributes returns the full attribute map of every element matching
	// selector without waiting; no matches yields an empty slice.
	Attributes(ctx context.Context, selector string) ([]map[string]string, error)

	// Exists reports whether at least one element matches selector right now.
	Exists(ctx context.Context, selector string) (bool, error)

	// Click clicks the first element matching selector, waiting for it to
	// become visible until the context deadline.
	Click(ctx context.Context, selector string) error

	// ScrollBy scrolls the viewport by the given pixel deltas.
	ScrollBy(ctx context.Context, x, y float64) error

	// Close shuts the page and its browser down.
	Close() error
}
