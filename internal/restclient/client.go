// Package restclient implements product.Repository over the catalog REST API.
//
// The API wraps read and mutation payloads in a {"data": ...} envelope; a
// missing data key on reads is an empty result, not an error. The existence
// verification endpoint returns a bare JSON boolean.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/product-desk/internal/domain/product"
)

// DefaultTimeout bounds a single API call when no custom client is supplied.
const DefaultTimeout = 10 * time.Second

var _ product.Repository = (*Client)(nil)

// APIError is a non-2xx response from the catalog API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the product catalog REST API.
type Client struct {
	httpc   *http.Client
	baseURL string
	lg      *zap.Logger

	// exists de-duplicates concurrent verification calls for the same ID.
	exists singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpc = c }
}

// WithLogger sets the logger used for request-level debug logging.
func WithLogger(lg *zap.Logger) Option {
	return func(cl *Client) { cl.lg = lg }
}

// NewClient creates a Client for the API rooted at baseURL (without the
// /products suffix). The default transport is wrapped with otelhttp.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   DefaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		lg:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all products in the catalog.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	body, err := c.do(ctx, http.MethodGet, c.productsURL(), nil)
	if err != nil {
		return nil, err
	}

	raw, err := dataEnvelope(body)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []product.Product{}, nil
	}

	var products []product.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// GetByID returns a single product, or product.ErrNotFound when the API has
// no entry for the ID.
func (c *Client) GetByID(ctx context.Context, id string) (*product.Product, error) {
	body, err := c.do(ctx, http.MethodGet, c.productURL(id), nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, product.ErrNotFound
		}
		return nil, err
	}

	return decodeProduct(body)
}

// Create persists a new product and returns the server-normalized form.
func (c *Client) Create(ctx context.Context, p product.Product) (*product.Product, error) {
	body, err := c.do(ctx, http.MethodPost, c.productsURL(), p)
	if err != nil {
		return nil, err
	}
	return decodeProduct(body)
}

// Update replaces the mutable fields of an existing product. The ID travels
// in the path only; the request body carries the product without it.
func (c *Client) Update(ctx context.Context, id string, p product.Product) (*product.Product, error) {
	payload := updatePayload{
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease.String(),
		DateRevision: p.DateRevision.String(),
	}
	body, err := c.do(ctx, http.MethodPut, c.productURL(id), payload)
	if err != nil {
		return nil, err
	}
	return decodeProduct(body)
}

// Delete removes a product by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.productURL(id), nil)
	return err
}

// Exists reports whether a product ID is already registered. Concurrent
// checks for the same ID share a single request.
func (c *Client) Exists(ctx context.Context, id string) (bool, error) {
	v, err, _ := c.exists.Do(id, func() (any, error) {
		body, err := c.do(ctx, http.MethodGet, c.verificationURL(id), nil)
		if err != nil {
			return false, err
		}
		d := jx.DecodeBytes(body)
		exists, err := d.Bool()
		if err != nil {
			return false, errors.Wrap(err, "decode verification response")
		}
		return exists, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

type updatePayload struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  string `json:"date_release"`
	DateRevision string `json:"date_revision"`
}

func (c *Client) productsURL() string {
	return c.baseURL + "/products"
}

func (c *Client) productURL(id string) string {
	return c.baseURL + "/products/" + url.PathEscape(id)
}

func (c *Client) verificationURL(id string) string {
	return c.baseURL + "/products/verification/" + url.PathEscape(id)
}

// do performs a single API request and returns the response body. A non-2xx
// status yields an *APIError; network failures are wrapped transport errors.
func (c *Client) do(ctx context.Context, method, u string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.lg.Debug("api request", zap.String("method", method), zap.String("url", u))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, u)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    apiErrorMessage(body, resp.StatusCode),
		}
	}
	return body, nil
}

// dataEnvelope extracts the raw value of the top-level "data" key. It returns
// nil when the key is absent or the body is empty.
func dataEnvelope(body []byte) (jx.Raw, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var raw jx.Raw
	d := jx.DecodeBytes(body)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "data" {
			r, err := d.Raw()
			if err != nil {
				return err
			}
			raw = r
			return nil
		}
		return d.Skip()
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode response envelope")
	}
	if raw == nil || raw.Type() == jx.Null {
		return nil, nil
	}
	return raw, nil
}

func decodeProduct(body []byte) (*product.Product, error) {
	raw, err := dataEnvelope(body)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, product.ErrNotFound
	}

	var p product.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrap(err, "decode product")
	}
	return &p, nil
}

// apiErrorMessage pulls a human message out of an error body, falling back to
// the HTTP status text.
func apiErrorMessage(body []byte, status int) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return http.StatusText(status)
}
