package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name                string
		page, perPage, total int
		want                Pagination
	}{
		{"first page", 1, 40, 95, Pagination{Page: 1, PerPage: 40, Total: 95, TotalPages: 3}},
		{"exact fit", 2, 40, 80, Pagination{Page: 2, PerPage: 40, Total: 80, TotalPages: 2}},
		{"empty result", 1, 40, 0, Pagination{Page: 1, PerPage: 40, Total: 0, TotalPages: 0}},
		{"clamped input", 0, 0, 10, Pagination{Page: 1, PerPage: 20, Total: 10, TotalPages: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, NewPagination(tc.page, tc.perPage, tc.total))
		})
	}
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Offset(1, 40))
	require.Equal(t, 40, Offset(2, 40))
	require.Equal(t, 80, Offset(3, 40))
	require.Equal(t, 0, Offset(0, 40))
	require.Equal(t, 0, Offset(-5, 40))
}
