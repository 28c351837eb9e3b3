// Package store owns the canonical in-memory product collection and derives
// presentation views from it. The Store is the only writer of the collection;
// the ListView never keeps its own copy and only recomputes from the current
// snapshot.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/xenking/product-desk/internal/domain/product"
)

// User-facing messages for failed repository operations. The underlying
// cause is logged, not surfaced.
const (
	MsgLoadFailed   = "failed to load products"
	MsgCreateFailed = "failed to create product"
	MsgUpdateFailed = "failed to update product"
	MsgDeleteFailed = "failed to delete product"
)

// Snapshot is an immutable copy of the store state handed to subscribers.
type Snapshot struct {
	Products []product.Product
	Selected *product.Product
	Loading  bool
	Err      string
}

// HasError reports whether the last operation failed.
func (s Snapshot) HasError() bool {
	return s.Err != ""
}

// IsEmpty reports whether the collection is settled and empty: not loading,
// no error, zero products.
func (s Snapshot) IsEmpty() bool {
	return !s.Loading && s.Err == "" && len(s.Products) == 0
}

// Store holds the canonical product collection plus request status. Every
// mutating operation calls the repository and reconciles its own result into
// the state; overlapping operations are deliberately not serialized against
// each other, so a slow earlier operation can clear the loading flag while a
// later one is still in flight. The mutex protects the state words only.
type Store struct {
	repo product.Repository
	lg   *zap.Logger

	mu       sync.Mutex
	products []product.Product
	selected *product.Product
	loading  bool
	err      string
	subs     map[int]func(Snapshot)
	nextSub  int
}

// Option customizes store construction.
type Option func(*Store)

// WithLogger sets the logger for repository failures.
func WithLogger(lg *zap.Logger) Option {
	return func(s *Store) { s.lg = lg }
}

// New creates an empty idle store backed by the given repository.
func New(repo product.Repository, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		lg:       zap.NewNop(),
		products: []product.Product{},
		subs:     make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to run after every committed state change with a
// fresh snapshot. It returns the unsubscribe function.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Load replaces the collection wholesale from the repository.
func (s *Store) Load(ctx context.Context) error {
	s.setLoading()

	products, err := s.repo.List(ctx)
	if err != nil {
		s.lg.Error("load products", zap.Error(err))
		s.setError(MsgLoadFailed)
		return err
	}

	s.apply(func() {
		// Copied so later appends never write into the repository's
		// backing array.
		s.products = make([]product.Product, len(products))
		copy(s.products, products)
		s.loading = false
	})
	return nil
}

// Create persists a new product and appends the server-returned form to the
// collection.
func (s *Store) Create(ctx context.Context, p product.Product) (*product.Product, error) {
	s.setLoading()

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.lg.Error("create product", zap.String("id", p.ID), zap.Error(err))
		s.setError(MsgCreateFailed)
		return nil, err
	}

	s.apply(func() {
		s.products = append(s.products, *created)
		s.loading = false
	})
	return created, nil
}

// Update replaces the mutable fields of the matching collection entry with
// the server-returned product. The entry's ID never changes.
func (s *Store) Update(ctx context.Context, id string, p product.Product) (*product.Product, error) {
	s.setLoading()

	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		s.lg.Error("update product", zap.String("id", id), zap.Error(err))
		s.setError(MsgUpdateFailed)
		return nil, err
	}

	merged := *updated
	merged.ID = id
	s.apply(func() {
		for i := range s.products {
			if s.products[i].ID == id {
				s.products[i] = merged
				break
			}
		}
		s.loading = false
	})
	return &merged, nil
}

// Delete removes the matching entry after the repository confirms deletion.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.setLoading()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.lg.Error("delete product", zap.String("id", id), zap.Error(err))
		s.setError(MsgDeleteFailed)
		return err
	}

	s.apply(func() {
		kept := s.products[:0:0]
		for _, p := range s.products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.products = kept
		s.loading = false
	})
	return nil
}

// ClearError resets the error state, typically right before a retry.
func (s *Store) ClearError() {
	s.apply(func() { s.err = "" })
}

// Select records the product currently being viewed or edited. Pass nil to
// clear the selection; it does not touch loading or error state.
func (s *Store) Select(p *product.Product) {
	s.apply(func() {
		if p == nil {
			s.selected = nil
			return
		}
		cp := *p
		s.selected = &cp
	})
}

func (s *Store) setLoading() {
	s.apply(func() {
		s.loading = true
		s.err = ""
	})
}

func (s *Store) setError(msg string) {
	s.apply(func() {
		s.err = msg
		s.loading = false
	})
}

// apply runs a state mutation under the lock and notifies subscribers with
// the resulting snapshot after releasing it.
func (s *Store) apply(mutate func()) {
	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	products := make([]product.Product, len(s.products))
	copy(products, s.products)

	var selected *product.Product
	if s.selected != nil {
		cp := *s.selected
		selected = &cp
	}

	return Snapshot{
		Products: products,
		Selected: selected,
		Loading:  s.loading,
		Err:      s.err,
	}
}
