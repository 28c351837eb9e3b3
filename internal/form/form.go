// Package form implements the product form validation pipeline: synchronous
// per-field rules, the release/revision cross-field invariant, and the
// asynchronous product-ID uniqueness check with stale-result suppression.
package form

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/product-desk/internal/domain/product"
	"github.com/xenking/product-desk/pkg/calendar"
)

// ErrInvalid is returned by Product when any field fails validation.
var ErrInvalid = errors.New("form has invalid fields")

// Form holds raw field values for a product and re-validates them on every
// change. Setting a valid release date auto-derives the revision date as
// release plus one year; the user may still overwrite it, which re-surfaces
// the mismatch error.
//
// In edit mode the ID is immutable and never re-checked for uniqueness.
type Form struct {
	mu       sync.Mutex
	values   map[Field]string
	errs     map[Field]*FieldError
	idExists bool
	editMode bool

	checker *UniqueIDChecker
	now     func() time.Time
}

// Option customizes form construction.
type Option func(*Form)

// WithExists enables the asynchronous ID uniqueness check.
func WithExists(exists ExistsFunc) Option {
	return func(f *Form) { f.checker = NewUniqueIDChecker(exists) }
}

// WithClock overrides the time source used by the release-date rule.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// New creates an empty form for a new product.
func New(opts ...Option) *Form {
	f := &Form{
		values: make(map[Field]string, len(Fields)),
		errs:   make(map[Field]*FieldError, len(Fields)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, field := range Fields {
		f.errs[field] = &FieldError{Kind: KindRequired}
	}
	return f
}

// Edit creates a form pre-populated from an existing product. The returned
// form is in edit mode: the ID field is fixed and uniqueness is not checked.
func Edit(p product.Product, opts ...Option) *Form {
	f := New(opts...)
	f.editMode = true
	f.Set(FieldID, p.ID)
	f.Set(FieldName, p.Name)
	f.Set(FieldDescription, p.Description)
	f.Set(FieldLogo, p.Logo)
	f.Set(FieldDateRelease, p.DateRelease.String())
	// Explicit set in case the stored revision diverges from release+1y.
	f.Set(FieldDateRevision, p.DateRevision.String())
	return f
}

// EditMode reports whether the form edits an existing product.
func (f *Form) EditMode() bool {
	return f.editMode
}

// Set records a field value and re-validates it. Changing the release date
// re-validates the revision date as well, and a newly valid release value
// derives the revision automatically.
func (f *Form) Set(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[field] = value
	f.errs[field] = f.validate(field, value)

	switch field {
	case FieldID:
		// A fresh ID value invalidates any previous uniqueness verdict.
		f.idExists = false
	case FieldDateRelease:
		if f.errs[field] == nil {
			release, _ := calendar.ParseDate(value)
			derived := release.AddYears(1).String()
			f.values[FieldDateRevision] = derived
			f.errs[FieldDateRevision] = f.validate(FieldDateRevision, derived)
		} else {
			f.errs[FieldDateRevision] = f.validate(FieldDateRevision, f.values[FieldDateRevision])
		}
	}
}

// Value returns the current raw value of a field.
func (f *Form) Value(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Err returns the highest-priority error for a field, or nil when the field
// is valid. The async idExists verdict surfaces only once the synchronous
// rules pass.
func (f *Form) Err(field Field) *FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErr(field)
}

func (f *Form) fieldErr(field Field) *FieldError {
	if err := f.errs[field]; err != nil {
		return err
	}
	if field == FieldID && f.idExists {
		return &FieldError{Kind: KindIDExists}
	}
	return nil
}

// Valid reports whether every field passes validation.
func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, field := range Fields {
		if f.fieldErr(field) != nil {
			return false
		}
	}
	return true
}

// CommitID triggers the asynchronous uniqueness check for the current ID
// value. It is meant to run on field commit (blur), not on every keystroke.
// No check is issued in edit mode, without a checker, or while the ID fails
// its synchronous rules.
func (f *Form) CommitID(ctx context.Context) {
	f.mu.Lock()
	if f.editMode || f.checker == nil || f.errs[FieldID] != nil {
		f.mu.Unlock()
		return
	}
	id := f.values[FieldID]
	f.mu.Unlock()

	f.checker.Check(ctx, id, func(exists bool) {
		f.mu.Lock()
		defer f.mu.Unlock()
		// The checker already suppresses stale generations; the value guard
		// covers edits made after this check was issued but before any
		// further commit.
		if f.values[FieldID] == id {
			f.idExists = exists
		}
	})
}

// Product assembles the canonical product from the current values. It fails
// with ErrInvalid while any field has an outstanding error.
func (f *Form) Product() (product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, field := range Fields {
		if f.fieldErr(field) != nil {
			return product.Product{}, ErrInvalid
		}
	}

	release, err := calendar.ParseDate(f.values[FieldDateRelease])
	if err != nil {
		return product.Product{}, ErrInvalid
	}
	revision, err := calendar.ParseDate(f.values[FieldDateRevision])
	if err != nil {
		return product.Product{}, ErrInvalid
	}

	return product.Product{
		ID:           f.values[FieldID],
		Name:         f.values[FieldName],
		Description:  f.values[FieldDescription],
		Logo:         f.values[FieldLogo],
		DateRelease:  release,
		DateRevision: revision,
	}, nil
}

// UpdatePayload assembles the product for an update call: the immutable ID is
// returned separately and left empty on the product, since it travels in the
// request path rather than the body.
func (f *Form) UpdatePayload() (string, product.Product, error) {
	p, err := f.Product()
	if err != nil {
		return "", product.Product{}, err
	}
	id := p.ID
	p.ID = ""
	return id, p, nil
}

func (f *Form) validate(field Field, value string) *FieldError {
	switch field {
	case FieldID:
		return validateID(value)
	case FieldName:
		return validateName(value)
	case FieldDescription:
		return validateDescription(value)
	case FieldLogo:
		return validateLogo(value)
	case FieldDateRelease:
		return validateRelease(value, calendar.FromTime(f.now()))
	case FieldDateRevision:
		return validateRevision(value, f.values[FieldDateRelease])
	}
	return nil
}
