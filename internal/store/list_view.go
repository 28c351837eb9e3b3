package store

import (
	"strings"
	"sync"

	"github.com/xenking/product-desk/internal/domain/product"
)

// DefaultPageSize is the initial page size of the list view.
const DefaultPageSize = 5

// ListView derives the filtered, paginated list presentation from the store's
// collection plus its own UI state (search term, page size). It holds no
// product data of its own: every accessor recomputes from the store's current
// snapshot, so derived values can never drift from the canonical collection.
type ListView struct {
	store *Store

	mu         sync.Mutex
	searchTerm string
	pageSize   int
}

// NewListView creates a list view over the given store.
func NewListView(s *Store) *ListView {
	return &ListView{store: s, pageSize: DefaultPageSize}
}

// UpdateSearchTerm sets the committed search term.
func (v *ListView) UpdateSearchTerm(term string) {
	v.mu.Lock()
	v.searchTerm = term
	v.mu.Unlock()
}

// UpdatePageSize sets the number of entries shown per page.
func (v *ListView) UpdatePageSize(n int) {
	v.mu.Lock()
	v.pageSize = n
	v.mu.Unlock()
}

// SearchTerm returns the committed search term.
func (v *ListView) SearchTerm() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchTerm
}

// PageSize returns the current page size.
func (v *ListView) PageSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageSize
}

// Filtered returns the products matching the search term. An empty or
// whitespace-only term keeps the collection unchanged; otherwise a product
// matches when its id, name, or description contains the trimmed term,
// case-insensitively.
func (v *ListView) Filtered() []product.Product {
	products := v.store.Snapshot().Products
	term := strings.ToLower(strings.TrimSpace(v.SearchTerm()))
	if term == "" {
		return products
	}

	matched := make([]product.Product, 0, len(products))
	for _, p := range products {
		if containsFold(p.ID, term) || containsFold(p.Name, term) || containsFold(p.Description, term) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Paginated returns the first pageSize entries of Filtered in original
// order. A page size of zero or less yields an empty slice.
func (v *ListView) Paginated() []product.Product {
	filtered := v.Filtered()
	size := v.PageSize()
	if size <= 0 {
		return []product.Product{}
	}
	if size > len(filtered) {
		size = len(filtered)
	}
	return filtered[:size]
}

// FilteredCount returns the total number of matches regardless of page size.
func (v *ListView) FilteredCount() int {
	return len(v.Filtered())
}

// containsFold reports whether s contains term. term must already be
// lowercase.
func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), term)
}
