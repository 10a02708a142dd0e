package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{PageNumber: 1, PageSize: DefaultPageSize}},
		{"negative page", Params{PageNumber: -3, PageSize: 20}, Params{PageNumber: 1, PageSize: 20}},
		{"size over cap", Params{PageNumber: 2, PageSize: 500}, Params{PageNumber: 2, PageSize: MaxPageSize}},
		{"valid unchanged", Params{PageNumber: 4, PageSize: 25}, Params{PageNumber: 4, PageSize: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPaginateMetadata(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	page := Paginate(items, Params{PageNumber: 2, PageSize: 10})

	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 45, page.TotalCount)
	assert.Equal(t, 5, page.TotalPages)
	require.Len(t, page.Items, 10)
	assert.Equal(t, 10, page.Items[0])
	assert.Equal(t, 19, page.Items[9])
}

func TestPaginateLastPagePartial(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	page := Paginate(items, Params{PageNumber: 3, PageSize: 3})

	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "g", page.Items[0])
}

func TestPaginatePastTheEnd(t *testing.T) {
	items := []int{1, 2, 3}

	page := Paginate(items, Params{PageNumber: 9, PageSize: 10})

	assert.Empty(t, page.Items)
	assert.Equal(t, 9, page.CurrentPage)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPaginateEmptySet(t *testing.T) {
	page := Paginate([]int(nil), Params{PageNumber: 1, PageSize: 10})

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
}

func TestTotalPagesCeiling(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{99, 10, 10},
		{100, 10, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestOffset(t *testing.T) {
	p := Params{PageNumber: 3, PageSize: 10}
	assert.Equal(t, 20, p.Offset())
}
