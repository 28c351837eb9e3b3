// Package facade coordinates the product store, the derived list view,
// notifications, and navigation behind a single surface for the UI layer.
package facade

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xenking/product-desk/internal/domain/product"
	"github.com/xenking/product-desk/internal/notify"
	"github.com/xenking/product-desk/internal/store"
)

// DefaultSearchDebounce is the quiet period before a raw search input is
// committed to the list view.
const DefaultSearchDebounce = 300 * time.Millisecond

// Navigator moves the UI between pages. Implementations must tolerate being
// called from background goroutines.
type Navigator interface {
	ToList()
	ToCreate()
	ToEdit(p product.Product)
}

// Facade wires the reactive core together: store mutations gain
// success/failure notifications and post-success navigation, raw search input
// is debounced before reaching the list view.
type Facade struct {
	store    *store.Store
	list     *store.ListView
	notifier *notify.Center
	nav      Navigator
	repo     product.Repository
	lg       *zap.Logger
	search   *debouncer
}

// Option customizes a Facade.
type Option func(*config)

type config struct {
	debounce time.Duration
	lg       *zap.Logger
}

// WithSearchDebounce overrides the search quiet period.
func WithSearchDebounce(d time.Duration) Option {
	return func(c *config) { c.debounce = d }
}

// WithLogger sets the facade logger.
func WithLogger(lg *zap.Logger) Option {
	return func(c *config) { c.lg = lg }
}

// New creates a Facade over the given collaborators. nav may be nil when the
// caller handles navigation itself.
func New(
	s *store.Store,
	list *store.ListView,
	notifier *notify.Center,
	nav Navigator,
	repo product.Repository,
	opts ...Option,
) *Facade {
	cfg := config{debounce: DefaultSearchDebounce, lg: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	f := &Facade{
		store:    s,
		list:     list,
		notifier: notifier,
		nav:      nav,
		repo:     repo,
		lg:       cfg.lg,
	}
	f.search = newDebouncer(cfg.debounce, list.UpdateSearchTerm)
	return f
}

// LoadProducts refreshes the canonical collection from the backend.
func (f *Facade) LoadProducts(ctx context.Context) {
	if err := f.store.Load(ctx); err != nil {
		f.lg.Warn("load products", zap.Error(err))
	}
}

// CreateProduct persists a new product, notifies the outcome, and returns to
// the list on success.
func (f *Facade) CreateProduct(ctx context.Context, p product.Product) {
	if _, err := f.store.Create(ctx, p); err != nil {
		f.notifier.Error(store.MsgCreateFailed)
		return
	}
	f.notifier.Success("product created")
	f.NavigateToList()
}

// UpdateProduct saves changes to an existing product, notifies the outcome,
// and returns to the list on success.
func (f *Facade) UpdateProduct(ctx context.Context, id string, p product.Product) {
	if _, err := f.store.Update(ctx, id, p); err != nil {
		f.notifier.Error(store.MsgUpdateFailed)
		return
	}
	f.notifier.Success("product updated")
	f.NavigateToList()
}

// DeleteProduct removes a product and notifies the outcome. The list page
// stays current, so no navigation happens.
func (f *Facade) DeleteProduct(ctx context.Context, id string) {
	if err := f.store.Delete(ctx, id); err != nil {
		f.notifier.Error(store.MsgDeleteFailed)
		return
	}
	f.notifier.Success("product deleted")
}

// Retry clears the store error and re-runs the load.
func (f *Facade) Retry(ctx context.Context) {
	f.store.ClearError()
	f.LoadProducts(ctx)
}

// VerifyID reports whether a product ID is already taken. A transport
// failure counts as available (fail-open) so a flaky network never blocks
// submission.
func (f *Facade) VerifyID(ctx context.Context, id string) bool {
	exists, err := f.repo.Exists(ctx, id)
	if err != nil {
		f.lg.Warn("verify product id", zap.String("id", id), zap.Error(err))
		return false
	}
	return exists
}

// OnSearchInput feeds a raw search keystroke into the debouncer. Only the
// settled value after the quiet period reaches the list view, and only when
// it differs from the last committed one.
func (f *Facade) OnSearchInput(term string) {
	f.search.input(term)
}

// UpdatePageSize changes the visible page size immediately.
func (f *Facade) UpdatePageSize(n int) {
	f.list.UpdatePageSize(n)
}

// NavigateToCreate opens the creation form.
func (f *Facade) NavigateToCreate() {
	if f.nav != nil {
		f.nav.ToCreate()
	}
}

// NavigateToEdit records the selected product and opens the edit form.
func (f *Facade) NavigateToEdit(p product.Product) {
	f.store.Select(&p)
	if f.nav != nil {
		f.nav.ToEdit(p)
	}
}

// NavigateToList returns to the product list.
func (f *Facade) NavigateToList() {
	if f.nav != nil {
		f.nav.ToList()
	}
}

// Snapshot returns the current store state.
func (f *Facade) Snapshot() store.Snapshot {
	return f.store.Snapshot()
}

// Products returns the current page of the filtered collection.
func (f *Facade) Products() []product.Product {
	return f.list.Paginated()
}

// FilteredCount returns the total number of search matches.
func (f *Facade) FilteredCount() int {
	return f.list.FilteredCount()
}

// SearchTerm returns the committed search term.
func (f *Facade) SearchTerm() string {
	return f.list.SearchTerm()
}

// PageSize returns the current page size.
func (f *Facade) PageSize() int {
	return f.list.PageSize()
}

// Close stops the search debouncer.
func (f *Facade) Close() {
	f.search.close()
}
