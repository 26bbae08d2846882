package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// pager serves items in pages and records every requested offset.
type pager struct {
	items   []int
	offsets []int
	failAt  int
}

func (p *pager) fetch(_ context.Context, limit, offset int) ([]int, error) {
	p.offsets = append(p.offsets, offset)
	if p.failAt > 0 && len(p.offsets) == p.failAt {
		return nil, errors.New("boom")
	}
	if offset >= len(p.items) {
		return []int{}, nil
	}
	end := min(offset+limit, len(p.items))
	return p.items[offset:end], nil
}

func TestFetchAllStopsOnShortPage(t *testing.T) {
	p := &pager{items: []int{1, 2, 3, 4, 5}}

	got, err := FetchAll[int](context.Background(), p.fetch, Pagination{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.Equal(t, []int{0, 2, 4}, p.offsets)
}

func TestFetchAllExactMultipleNeedsEmptyPage(t *testing.T) {
	p := &pager{items: []int{1, 2, 3, 4}}

	got, err := FetchAll[int](context.Background(), p.fetch, Pagination{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Equal(t, []int{0, 2, 4}, p.offsets)
}

func TestFetchAllEmpty(t *testing.T) {
	p := &pager{}

	got, err := FetchAll[int](context.Background(), p.fetch, Pagination{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []int{0}, p.offsets)
}

func TestFetchAllPropagatesPageFailure(t *testing.T) {
	p := &pager{items: []int{1, 2, 3, 4, 5}, failAt: 2}

	got, err := FetchAll[int](context.Background(), p.fetch, Pagination{PageSize: 2})
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestFetchAllMaxPages(t *testing.T) {
	p := &pager{items: []int{1, 2, 3, 4, 5}}

	got, err := FetchAll[int](context.Background(), p.fetch, Pagination{PageSize: 2, MaxPages: 2})
	assert.ErrorIs(t, err, pkgerrors.ErrPaginationLimit)
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestFetchAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &pager{items: []int{1}}

	_, err := FetchAll[int](ctx, p.fetch, Pagination{PageSize: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.offsets)
}
