package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sankshitpandoh/CapLedger/pkg/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// PageFunc fetches one page of at most limit items starting at offset.
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Pagination controls FetchAll.
type Pagination struct {
	// PageSize is the limit sent with each request. Zero means DefaultPageSize.
	PageSize int

	// MaxPages caps the number of requests. Zero means no cap.
	MaxPages int
}

// FetchAll requests consecutive pages until one comes back shorter than the
// page size, and returns every item in server order. It fails as soon as any
// page fails.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T], p Pagination) ([]T, error) {
	size := p.PageSize
	if size <= 0 {
		size = constants.DefaultPageSize
	}

	var (
		results []T
		offset  int
	)
	for page := 0; ; page++ {
		if p.MaxPages > 0 && page >= p.MaxPages {
			return results, errors.ErrPaginationLimit
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := fetch(ctx, size, offset)
		if err != nil {
			return nil, err
		}
		results = append(results, items...)
		if len(items) < size {
			return results, nil
		}
		offset += size
	}
}

func pageQuery(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}
