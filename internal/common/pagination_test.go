package common

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	page, perPage := ParsePagination(httptest.NewRequest("GET", "/products?page=3&limit=5", nil), 20)
	require.Equal(t, 3, page)
	require.Equal(t, 5, perPage)

	page, perPage = ParsePagination(httptest.NewRequest("GET", "/products?page=-1&limit=abc", nil), 20)
	require.Equal(t, 1, page)
	require.Equal(t, 20, perPage)
}

func TestPageBounds(t *testing.T) {
	cases := []struct {
		name                 string
		total, page, perPage int
		start, end           int
	}{
		{name: "first page", total: 3, page: 1, perPage: 2, start: 0, end: 2},
		{name: "partial last page", total: 3, page: 2, perPage: 2, start: 2, end: 3},
		{name: "past the end", total: 3, page: 5, perPage: 2, start: 3, end: 3},
		{name: "page would overflow", total: 3, page: 4611686018427387905, perPage: 2, start: 3, end: 3},
		{name: "max page", total: 3, page: math.MaxInt, perPage: 100, start: 3, end: 3},
		{name: "huge limit", total: 3, page: 1, perPage: math.MaxInt, start: 0, end: 3},
		{name: "invalid page", total: 3, page: 0, perPage: 2, start: 0, end: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := PageBounds(tc.total, tc.page, tc.perPage)
			require.Equal(t, tc.start, start)
			require.Equal(t, tc.end, end)
		})
	}

	require.Equal(t, Pagination{Page: 2, PerPage: 2, TotalItems: 3, TotalPages: 2}, NewPagination(2, 2, 3))
}
