//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeBackend simulates the catalog API: a {"data": ...} envelope on every
// response, 404 for unknown IDs, and a bare boolean on the verification
// endpoint.
type fakeBackend struct {
	mu       sync.Mutex
	products map[string]productJSON
	order    []string
}

type productJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{products: make(map[string]productJSON)}
}

func (b *fakeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", b.list)
	mux.HandleFunc("GET /products/{id}", b.get)
	mux.HandleFunc("POST /products", b.create)
	mux.HandleFunc("PUT /products/{id}", b.update)
	mux.HandleFunc("DELETE /products/{id}", b.delete)
	mux.HandleFunc("GET /products/verification/{id}", b.verify)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (b *fakeBackend) list(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	out := make([]productJSON, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.products[id])
	}
	b.mu.Unlock()

	writeData(w, http.StatusOK, out)
}

func (b *fakeBackend) get(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	p, ok := b.products[r.PathValue("id")]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeData(w, http.StatusOK, p)
}

func (b *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	var p productJSON
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	_, dup := b.products[p.ID]
	if !dup {
		b.products[p.ID] = p
		b.order = append(b.order, p.ID)
	}
	b.mu.Unlock()

	if dup {
		writeError(w, http.StatusBadRequest, "duplicate product id")
		return
	}
	writeData(w, http.StatusCreated, p)
}

func (b *fakeBackend) update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var p productJSON
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p.ID = id

	b.mu.Lock()
	_, ok := b.products[id]
	if ok {
		b.products[id] = p
	}
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeData(w, http.StatusOK, p)
}

func (b *fakeBackend) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b.mu.Lock()
	_, ok := b.products[id]
	if ok {
		delete(b.products, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeData(w, http.StatusOK, "product removed")
}

func (b *fakeBackend) verify(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	_, ok := b.products[r.PathValue("id")]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ok); err != nil {
		panic(err)
	}
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": v}); err != nil {
		panic(err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": msg}); err != nil {
		panic(err)
	}
}
