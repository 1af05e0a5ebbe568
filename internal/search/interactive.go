package search

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/shopbill/pos/internal/domain/entity"
)

// Run drives a debounced search session over line-oriented input: every
// line read from in becomes the current query, a blank line clears, and
// results from the winning request stream to out as they arrive. It
// returns once in is exhausted and the trailing query has had its quiet
// window.
func Run(in io.Reader, out io.Writer, searchFn SearchFunc, window time.Duration, currency string) error {
	if window <= 0 {
		window = DefaultWindow
	}

	var mu sync.Mutex
	deliver := func(query string, items []entity.CatalogItem, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			fmt.Fprintf(out, "search %q: %v\n", query, err)
		case query == "":
			// cleared; nothing to show
		case len(items) == 0:
			fmt.Fprintf(out, "no matches for %q\n", query)
		default:
			for _, item := range items {
				fmt.Fprintf(out, "%-30s %s%s  stock %s %s\n",
					item.ItemName, currency, item.SellPrice.StringFixed(2),
					item.CurrentStock, item.Unit)
			}
		}
	}

	d := NewDebouncer(searchFn, deliver, window)
	defer d.Close()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		d.Query(strings.TrimSpace(sc.Text()))
	}

	// give the trailing query its quiet window and the search time to
	// come back before shutting down
	time.Sleep(window + 100*time.Millisecond)
	return sc.Err()
}
