package service

import (
	"context"
	"fmt"

	"sharehub/internal/domain"
)

// page is a zero-based page number plus a page size. Listings take the
// pair as optional query parameters; a nil page means "everything".
type page struct {
	number int
	size   int
}

// parsePage validates the from/size pair. A lone parameter is treated
// as both-absent. from is the page number, not a record offset.
func parsePage(from, size *int) (*page, error) {
	if from == nil || size == nil {
		return nil, nil
	}
	if *from < 0 || *size < 0 || (*from == 0 && *size == 0) {
		return nil, fmt.Errorf("from=%d size=%d: %w", *from, *size, domain.ErrBadRequest)
	}
	return &page{number: *from, size: *size}, nil
}

func (p *page) offset() int {
	return p.number * p.size
}

// fetchClamped runs a paginated listing. When the requested page turns
// out empty but earlier pages exist, it re-fetches the last non-empty
// page instead of returning nothing.
func fetchClamped[T any](
	ctx context.Context,
	p *page,
	list func(ctx context.Context, limit, offset int) ([]T, error),
	count func(ctx context.Context) (int, error),
) ([]T, error) {
	if p == nil {
		return list(ctx, 0, 0)
	}
	if p.size == 0 {
		return nil, nil
	}

	rows, err := list(ctx, p.size, p.offset())
	if err != nil || len(rows) > 0 || p.number == 0 {
		return rows, err
	}

	total, err := count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	last := page{number: (total - 1) / p.size, size: p.size}
	return list(ctx, last.size, last.offset())
}
