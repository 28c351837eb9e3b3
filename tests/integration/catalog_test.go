//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xenking/product-desk/internal/domain/product"
	"github.com/xenking/product-desk/internal/facade"
	"github.com/xenking/product-desk/internal/notify"
	"github.com/xenking/product-desk/internal/restclient"
	"github.com/xenking/product-desk/internal/store"
	"github.com/xenking/product-desk/pkg/calendar"
)

func sampleProduct(id string) product.Product {
	return product.Product{
		ID:           id,
		Name:         "Visa Platinum Card",
		Description:  "a credit card with extended travel insurance",
		Logo:         "https://assets.example.com/visa-platinum.png",
		DateRelease:  calendar.Date{Year: 2030, Month: time.March, Day: 1},
		DateRevision: calendar.Date{Year: 2031, Month: time.March, Day: 1},
	}
}

func TestClientLifecycle(t *testing.T) {
	backend := newFakeBackend()
	client := restclient.NewClient(backend.server(t).URL)
	ctx := context.Background()

	// Empty catalog.
	products, err := client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty catalog, got %d products", len(products))
	}

	// Create.
	created, err := client.Create(ctx, sampleProduct("visa-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "visa-01" {
		t.Fatalf("expected id visa-01, got %q", created.ID)
	}

	// Verification sees the new ID.
	exists, err := client.Exists(ctx, "visa-01")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected visa-01 to exist")
	}
	exists, err = client.Exists(ctx, "other")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected other to be unknown")
	}

	// Update keeps the path ID.
	updated := sampleProduct("visa-01")
	updated.Name = "Visa Platinum Card v2"
	got, err := client.Update(ctx, "visa-01", updated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Visa Platinum Card v2" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}

	// GetByID round-trips dates.
	fetched, err := client.GetByID(ctx, "visa-01")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if fetched.DateRevision.String() != "2031-03-01" {
		t.Fatalf("expected revision 2031-03-01, got %s", fetched.DateRevision)
	}

	// Unknown IDs map to the domain sentinel.
	if _, err := client.GetByID(ctx, "ghost"); !errors.Is(err, product.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Delete, then the ID is gone.
	if err := client.Delete(ctx, "visa-01"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	products, err = client.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty catalog after delete, got %d products", len(products))
	}
}

func TestDuplicateCreateRejected(t *testing.T) {
	backend := newFakeBackend()
	client := restclient.NewClient(backend.server(t).URL)
	ctx := context.Background()

	if _, err := client.Create(ctx, sampleProduct("dup-01")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := client.Create(ctx, sampleProduct("dup-01")); err == nil {
		t.Fatal("expected duplicate create to fail")
	}
}

func TestFacadeFlow(t *testing.T) {
	backend := newFakeBackend()
	client := restclient.NewClient(backend.server(t).URL)
	ctx := context.Background()

	st := store.New(client)
	list := store.NewListView(st)
	center := notify.NewCenter(notify.WithTTL(time.Minute))
	defer center.Close()
	f := facade.New(st, list, center, nil, client,
		facade.WithSearchDebounce(5*time.Millisecond))
	defer f.Close()

	f.CreateProduct(ctx, sampleProduct("visa-01"))
	mc := sampleProduct("mc-01")
	mc.Name = "Mastercard World Elite"
	f.CreateProduct(ctx, mc)

	snap := f.Snapshot()
	if snap.HasError() {
		t.Fatalf("unexpected store error: %s", snap.Err)
	}
	if len(snap.Products) != 2 {
		t.Fatalf("expected 2 products in state, got %d", len(snap.Products))
	}

	// Search settles after the debounce window.
	f.OnSearchInput("mastercard")
	deadline := time.Now().Add(time.Second)
	for f.FilteredCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("search never settled, filtered count %d", f.FilteredCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
	page := f.Products()
	if len(page) != 1 || page[0].ID != "mc-01" {
		t.Fatalf("expected mc-01 in filtered page, got %+v", page)
	}

	// Deleting updates state without a reload.
	f.OnSearchInput("")
	f.DeleteProduct(ctx, "visa-01")
	deadline = time.Now().Add(time.Second)
	for f.FilteredCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("delete never settled, filtered count %d", f.FilteredCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	toasts := center.Toasts()
	if len(toasts) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(toasts))
	}
}
