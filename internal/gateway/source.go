package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abgdnv/storefront/internal/catalog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrMalformedResponse is returned when a payload does not have the expected shape.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError reports a non-2xx answer from the data source.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Source provides the product list and current stock levels.
type Source interface {
	// Products returns the full product list.
	Products(ctx context.Context) ([]catalog.Product, error)
	// Stock returns the current stock per product id, for any subset of products.
	Stock(ctx context.Context) (map[string]int, error)
}

// SourceFactory builds a Source for an API base.
type SourceFactory func(apiBase string) Source

// HTTPSource reads products and stock from the catalog HTTP endpoints under a base URL.
type HTTPSource struct {
	client  *http.Client
	baseURL string
}

// NewHTTPSource creates a source for baseURL; every request is bounded by timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// HTTPSourceFactory returns a factory resolving relative API bases against origin.
func HTTPSourceFactory(origin string, timeout time.Duration) SourceFactory {
	return func(apiBase string) Source {
		return NewHTTPSource(ResolveBase(origin, apiBase), timeout)
	}
}

// ResolveBase joins a relative apiBase (e.g. "/api") to origin. Absolute bases are kept as is.
func ResolveBase(origin, apiBase string) string {
	if u, err := url.Parse(apiBase); err == nil && u.IsAbs() {
		return apiBase
	}
	joined, err := url.JoinPath(origin, apiBase)
	if err != nil {
		return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(apiBase, "/")
	}
	return joined
}

// Products fetches GET {base}/products.
func (s *HTTPSource) Products(ctx context.Context) ([]catalog.Product, error) {
	body, err := s.get(ctx, "/products")
	if err != nil {
		return nil, err
	}
	var payload []productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: product list: %v", ErrMalformedResponse, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: product list is null", ErrMalformedResponse)
	}
	products := make([]catalog.Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, catalog.Product{
			ID:       string(p.ID),
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Stock:    p.Stock,
		})
	}
	return products, nil
}

// productPayload is one element of the product list; ids may be strings or numbers.
type productPayload struct {
	ID       flexID  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}

// stockLevel is one element of the stock payload.
type stockLevel struct {
	ID    flexID   `json:"id"`
	Stock *float64 `json:"stock"`
}

// flexID accepts a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// Stock fetches GET {base}/stock and indexes it by product id.
// Entries without a usable id or a stock count in [0, MaxInt32] are skipped.
func (s *HTTPSource) Stock(ctx context.Context) (map[string]int, error) {
	body, err := s.get(ctx, "/stock")
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: stock levels: %v", ErrMalformedResponse, err)
	}
	byID := make(map[string]int, len(raw))
	for _, item := range raw {
		var l stockLevel
		if err := json.Unmarshal(item, &l); err != nil {
			continue
		}
		stock, ok := stockValue(l.Stock)
		if l.ID == "" || !ok {
			continue
		}
		byID[string(l.ID)] = stock
	}
	return byID, nil
}

// stockValue truncates v to a stock count. Missing, negative and out-of-range values
// (including NaN and infinities) are not usable.
func stockValue(v *float64) (int, bool) {
	if v == nil || !(*v >= 0 && *v <= math.MaxInt32) {
		return 0, false
	}
	return int(*v), true
}

// get performs a GET and returns the body of a 2xx response.
func (s *HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// displayMessage turns a load failure into the text shown to users.
func displayMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return err.Error()
}
