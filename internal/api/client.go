// Package api is the HTTP client for the billing backend: catalog
// search and lookup, bill submission, and credit repayments. The
// engine itself has no network awareness; everything here is a
// collaborator feeding it or consuming its output.
package api

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

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/shopbill/pos/internal/domain/entity"
	"github.com/shopbill/pos/pkg/apperror"
)

// Client talks to the backend REST API. A client-side rate limiter
// keeps keystroke-driven search traffic from hammering the backend.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Config holds client settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// envelope is the standard backend response wrapper.
type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("api: decode response (%d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		appErr := &apperror.AppError{Code: resp.StatusCode, Message: env.Message, Errors: env.Errors}
		if appErr.Message == "" {
			appErr.Message = http.StatusText(resp.StatusCode)
		}
		return appErr
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("api: decode data: %w", err)
		}
	}
	return nil
}

// SearchItems runs a free-text catalog search.
func (c *Client) SearchItems(ctx context.Context, query string) ([]entity.CatalogItem, error) {
	var items []entity.CatalogItem
	path := "/api/items/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemByBarcode looks up a single item by exact barcode.
func (c *Client) GetItemByBarcode(ctx context.Context, code string) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	path := "/api/items/barcode/" + url.PathEscape(code)
	if err := c.do(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns the full catalog.
func (c *Client) ListItems(ctx context.Context) ([]entity.CatalogItem, error) {
	var items []entity.CatalogItem
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem adds a catalog item.
func (c *Client) CreateItem(ctx context.Context, item *entity.CatalogItem) (*entity.CatalogItem, error) {
	var created entity.CatalogItem
	if err := c.do(ctx, http.MethodPost, "/api/items", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateBill submits a finished bill for persistence.
func (c *Client) CreateBill(ctx context.Context, payload *entity.BillPayload) (*entity.Bill, error) {
	var bill entity.Bill
	if err := c.do(ctx, http.MethodPost, "/api/bills", payload, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// SearchBills searches persisted bills by bill number or customer.
func (c *Client) SearchBills(ctx context.Context, query string) ([]entity.Bill, error) {
	var bills []entity.Bill
	path := "/api/bills/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// PayCredit records a repayment against a credit bill.
func (c *Client) PayCredit(ctx context.Context, billID string, amount decimal.Decimal) (*entity.Bill, error) {
	var bill entity.Bill
	body := map[string]decimal.Decimal{"amount": amount}
	path := "/api/bills/" + url.PathEscape(billID) + "/payments"
	if err := c.do(ctx, http.MethodPost, path, body, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}
