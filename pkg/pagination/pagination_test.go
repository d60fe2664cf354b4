package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		total      int
		wantNumber int
		wantPages  int
		wantOffset int
	}{
		{"first page", "1", 13, 1, 2, 0},
		{"second page", "2", 13, 2, 2, 10},
		{"past the end clamps", "3", 13, 2, 2, 10},
		{"absent", "", 13, 1, 2, 0},
		{"not a number", "two", 13, 1, 2, 0},
		{"zero", "0", 13, 1, 2, 0},
		{"padded", " 2 ", 13, 2, 2, 10},
		{"empty collection", "5", 0, 1, 1, 0},
		{"exact multiple", "2", 20, 2, 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.raw, tt.total, PostsPerPage)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantPages, p.NumPages)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, PostsPerPage, p.Limit())
		})
	}
}

func TestPage_Flags(t *testing.T) {
	p := New("2", 25, PostsPerPage)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)

	last := New("3", 25, PostsPerPage)
	assert.False(t, last.HasNext)

	meta := last.Meta()
	assert.Equal(t, 3, meta.Page)
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
}
