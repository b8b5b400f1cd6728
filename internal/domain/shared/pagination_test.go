package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		pageSize   int
		wantNumber int
		wantPages  int
		wantOffset int
		wantEnd    int
		wantPrev   bool
		wantNext   bool
	}{
		{"empty list is page 1 of 1", 0, 1, 10, 1, 1, 0, 0, false, false},
		{"first page", 25, 1, 10, 1, 3, 0, 10, false, true},
		{"middle page", 25, 2, 10, 2, 3, 10, 20, true, true},
		{"last partial page", 25, 3, 10, 3, 3, 20, 25, true, false},
		{"page beyond range is clamped", 25, 9, 10, 3, 3, 20, 25, true, false},
		{"page below range is clamped", 25, -4, 10, 1, 3, 0, 10, false, true},
		{"zero page size uses default", 25, 1, 0, 1, 3, 0, 10, false, true},
		{"exact multiple", 20, 2, 10, 2, 2, 10, 20, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.total, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.Equal(t, tt.wantEnd, p.End)
			assert.Equal(t, tt.wantPrev, p.HasPrev)
			assert.Equal(t, tt.wantNext, p.HasNext)
		})
	}

	t.Run("page size is capped", func(t *testing.T) {
		p := Paginate(1000, 1, 500)
		assert.Equal(t, MaxPageSize, p.Size)
		assert.Equal(t, 10, p.TotalPages)
	})
}

func TestWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Window(1, 10, 5))
	assert.Equal(t, []int{3, 4, 5, 6, 7}, Window(5, 10, 5))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, Window(10, 10, 5))
	assert.Equal(t, []int{1, 2, 3}, Window(2, 3, 5))
	assert.Equal(t, []int{1}, Window(1, 1, 5))
	assert.Nil(t, Window(1, 0, 5))
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Slice(items, Paginate(len(items), 1, 3)))
	assert.Equal(t, []int{7}, Slice(items, Paginate(len(items), 3, 3)))
	assert.Equal(t, []int{}, Slice([]int{}, Paginate(0, 1, 3)))
}
