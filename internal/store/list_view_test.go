package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/product-desk/internal/domain/product"
)

func newListFixture(t *testing.T, products ...product.Product) (*Store, *ListView) {
	t.Helper()
	s := New(&mockRepo{products: products})
	require.NoError(t, s.Load(context.Background()))
	return s, NewListView(s)
}

func catalogFixture() []product.Product {
	alpha := newProduct("alpha-1", "Savings Account")
	alpha.Description = "a standard savings account"
	beta := newProduct("beta-2", "Credit Card")
	beta.Description = "cashback on every purchase"
	gamma := newProduct("gamma-3", "Mortgage")
	gamma.Description = "fixed rate home loan"
	return []product.Product{alpha, beta, gamma}
}

func TestFiltered_EmptyTermIsIdentity(t *testing.T) {
	products := catalogFixture()
	_, v := newListFixture(t, products...)

	assert.Equal(t, products, v.Filtered())

	v.UpdateSearchTerm("   ")
	assert.Equal(t, products, v.Filtered(), "whitespace-only term is treated as empty")
}

func TestFiltered_MatchesEachFieldCaseInsensitively(t *testing.T) {
	products := catalogFixture()
	_, v := newListFixture(t, products...)

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{name: "by id", term: "BETA", wantIDs: []string{"beta-2"}},
		{name: "by name", term: "savings", wantIDs: []string{"alpha-1"}},
		{name: "by description only", term: "home loan", wantIDs: []string{"gamma-3"}},
		{name: "substring across entries", term: "a-", wantIDs: []string{"alpha-1", "beta-2", "gamma-3"}},
		{name: "no match", term: "zzz", wantIDs: []string{}},
		{name: "term is trimmed", term: "  credit  ", wantIDs: []string{"beta-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.UpdateSearchTerm(tt.term)
			got := v.Filtered()
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestPaginated_PrefixSemantics(t *testing.T) {
	products := catalogFixture()
	_, v := newListFixture(t, products...)

	tests := []struct {
		name     string
		pageSize int
		wantLen  int
	}{
		{name: "page smaller than collection", pageSize: 2, wantLen: 2},
		{name: "page equals collection", pageSize: 3, wantLen: 3},
		{name: "page larger than collection", pageSize: 10, wantLen: 3},
		{name: "zero page size", pageSize: 0, wantLen: 0},
		{name: "negative page size", pageSize: -3, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.UpdatePageSize(tt.pageSize)
			got := v.Paginated()
			require.Len(t, got, tt.wantLen)
			// Always a prefix of Filtered, order preserved.
			assert.Equal(t, v.Filtered()[:tt.wantLen], got)
		})
	}
}

func TestFilteredCount_IndependentOfPageSize(t *testing.T) {
	_, v := newListFixture(t, catalogFixture()...)

	v.UpdatePageSize(1)
	assert.Equal(t, 3, v.FilteredCount())
	assert.Len(t, v.Paginated(), 1)

	v.UpdateSearchTerm("credit")
	assert.Equal(t, 1, v.FilteredCount())
}

func TestUpdateSearchTerm_Idempotent(t *testing.T) {
	_, v := newListFixture(t, catalogFixture()...)

	v.UpdateSearchTerm("credit")
	first := v.Filtered()
	firstPage := v.Paginated()
	firstCount := v.FilteredCount()

	v.UpdateSearchTerm("credit")
	assert.Equal(t, first, v.Filtered())
	assert.Equal(t, firstPage, v.Paginated())
	assert.Equal(t, firstCount, v.FilteredCount())
}

func TestListView_TracksStoreMutations(t *testing.T) {
	products := catalogFixture()
	s, v := newListFixture(t, products...)

	require.NoError(t, s.Delete(context.Background(), "beta-2"))

	assert.Equal(t, 2, v.FilteredCount())
	v.UpdateSearchTerm("credit")
	assert.Empty(t, v.Filtered(), "derived view recomputes from the live collection")
}

func TestListView_Defaults(t *testing.T) {
	_, v := newListFixture(t)
	assert.Equal(t, DefaultPageSize, v.PageSize())
	assert.Empty(t, v.SearchTerm())
}
