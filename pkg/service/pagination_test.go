package service

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
)

func TestParsePagination(t *testing.T) {
	lastPage := math.MaxInt/MaxSize + 1

	tests := []struct {
		name       string
		page, size string
		want       Pagination
		wantErr    string
	}{
		{name: "defaults", want: Pagination{Page: 1, Size: 10}},
		{name: "explicit", page: " 3 ", size: "20", want: Pagination{Page: 3, Size: 20}},
		{name: "max size", size: "100", want: Pagination{Page: 1, Size: 100}},
		{name: "last page with an offset that fits", page: strconv.Itoa(lastPage), size: "100", want: Pagination{Page: lastPage, Size: 100}},
		{name: "zero page", page: "0", wantErr: "page and size must be greater than 0"},
		{name: "negative size", size: "-1", wantErr: "page and size must be greater than 0"},
		{name: "not a number", page: "two", wantErr: "page and size must be greater than 0"},
		{name: "beyond int", page: "9223372036854775808", wantErr: "page and size must be greater than 0"},
		{name: "size above max", size: "101", wantErr: "size must not exceed 100"},
		{name: "size max int", size: "9223372036854775807", wantErr: "size must not exceed 100"},
		{name: "offset overflows", page: "4611686018427387905", size: "2", wantErr: "page is out of range"},
		{name: "offset overflows at max size", page: strconv.Itoa(lastPage + 1), size: "100", wantErr: "page is out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePagination(tt.page, tt.size)
			if tt.wantErr != "" {
				assertKind(t, err, apperr.KindValidation, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Offset(), 0)
		})
	}
}

func TestPaginationTotalPages(t *testing.T) {
	tests := []struct {
		size  int
		total int64
		want  int
	}{
		{size: 10, total: 25, want: 3},
		{size: 10, total: 30, want: 3},
		{size: 10, total: 0, want: 0},
		{size: 100, total: 5, want: 1},
		{size: 1, total: 1, want: 1},
		{size: 100, total: math.MaxInt64, want: int(math.MaxInt64/100 + 1)},
	}

	for _, tt := range tests {
		got := Pagination{Page: 1, Size: tt.size}.TotalPages(tt.total)
		assert.Equal(t, tt.want, got, "size=%d total=%d", tt.size, tt.total)
	}
}
