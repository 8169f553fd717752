package catalog

import (
	"fmt"
	"store-route-service/internal/domain"
)

// PerPage is how many store numbers one page of a brand listing spans.
const PerPage = 20

// Page is one window of a brand's store numbers.
type Page struct {
	Brand  Brand
	Number int
	Pages  int
	From   int
	To     int
	Stores []domain.Store
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.Pages }

// Page returns the n-th window of PerPage numbers inside the brand range,
// capped at the highest number present in the catalog. Pages past the end
// clamp to the last page; numbers without a store are skipped.
func (c *Catalog) Page(code string, n int) (Page, error) {
	b, ok := c.brands.Get(code)
	if !ok {
		return Page{}, &domain.RequestError{
			Reason: fmt.Sprintf("unknown brand %q", code),
			Err:    domain.ErrUnknownStore,
		}
	}

	stores := c.Stores(b.Code)
	top := b.Max
	if len(stores) > 0 {
		if last := stores[len(stores)-1].Key.Number; last >= b.Min && last < top {
			top = last
		}
	}

	pages := (top-b.Min)/PerPage + 1
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}

	p := Page{Brand: b, Number: n, Pages: pages}
	p.From = b.Min + (n-1)*PerPage
	p.To = min(top, p.From+PerPage-1)

	for _, s := range stores {
		if s.Key.Number >= p.From && s.Key.Number <= p.To {
			p.Stores = append(p.Stores, s)
		}
	}
	return p, nil
}
