package product

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/product-desk/pkg/calendar"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Field length bounds enforced by the form layer and assumed by the backend.
const (
	IDMinLen          = 3
	IDMaxLen          = 10
	NameMinLen        = 5
	NameMaxLen        = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 200
)

// Product is a catalog entry of the financial products backend. The ID is
// immutable after creation; DateRevision is maintained exactly one calendar
// year after DateRelease.
type Product struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Logo         string        `json:"logo"`
	DateRelease  calendar.Date `json:"date_release"`
	DateRevision calendar.Date `json:"date_revision"`
}

// Repository defines the read/write operations a product backend must
// support. All calls may fail with a transport error; Exists additionally
// reports whether an ID is already taken.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p Product) (*Product, error)
	Update(ctx context.Context, id string, p Product) (*Product, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
