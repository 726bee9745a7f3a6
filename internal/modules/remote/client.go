package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
	"github.com/georgemunganga/printa-dashboard/internal/modules/auth"
	"github.com/georgemunganga/printa-dashboard/internal/modules/catalog"
	"github.com/georgemunganga/printa-dashboard/internal/modules/order"
)

// Fallback messages when the entity API gives no message of its own.
const (
	msgFetchProducts = "Failed to fetch products"
	msgFetchOrders   = "Failed to fetch orders"
	msgCreateOrder   = "Failed to create order"
	msgUpdateOrder   = "Failed to update order"
	msgDeleteOrder   = "Failed to delete order"
)

// LineRequest is one entry of the order creation payload.
type LineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Items []LineRequest `json:"items"`
}

// UpdateStatusRequest is the body of PUT /orders/{id}.
type UpdateStatusRequest struct {
	Status order.OrderStatus `json:"status"`
}

// Options tunes the HTTP client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Retries bounds extra attempts for idempotent reads. Writes are never retried.
	Retries uint64
	Logger  logrus.FieldLogger
}

// Client talks to the product/order entity API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  auth.TokenSource
	retries uint64
	log     logrus.FieldLogger
}

// NewClient builds an entity API client.
func NewClient(opts Options, tokens auth.TokenSource) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		tokens:  tokens,
		retries: opts.Retries,
		log:     opts.Logger.WithField("component", "remote"),
	}
}

// ListProducts fetches GET /products. Records that fail to decode are logged
// and skipped.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var raw []json.RawMessage
	if err := c.fetch(ctx, "/products", msgFetchProducts, &raw); err != nil {
		return nil, err
	}
	return decodeEach[catalog.Product](c.log, "product", raw), nil
}

// ListOrders fetches GET /orders. Records that fail to decode are logged and
// skipped.
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	var raw []json.RawMessage
	if err := c.fetch(ctx, "/orders", msgFetchOrders, &raw); err != nil {
		return nil, err
	}
	return decodeEach[order.Order](c.log, "order", raw), nil
}

// CreateOrder posts a new multi-line order. Stock is decremented server-side.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) error {
	return c.send(ctx, http.MethodPost, "/orders", msgCreateOrder, req)
}

// UpdateOrderStatus sets an order's status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status order.OrderStatus) error {
	return c.send(ctx, http.MethodPut, "/orders/"+strconv.FormatInt(id, 10), msgUpdateOrder,
		UpdateStatusRequest{Status: status})
}

// DeleteOrder removes an order; the API restores its stock.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, "/orders/"+strconv.FormatInt(id, 10), msgDeleteOrder, nil)
}

// ── transport ─────────────────────────────────────────────────────────────────

// fetch performs an idempotent GET, retrying transport failures and 5xx answers
// with exponential backoff. Client errors are returned at once.
func (c *Client) fetch(ctx context.Context, path, fallback string, out interface{}) error {
	var final error
	attempt := 0
	op := func() error {
		attempt++
		body, err := c.do(ctx, http.MethodGet, path, fallback, nil)
		if err != nil {
			var re *apperr.RemoteError
			if errors.As(err, &re) && re.Status >= 400 && re.Status < 500 {
				final = err
				return nil
			}
			c.log.WithError(err).WithFields(logrus.Fields{"path": path, "attempt": attempt}).Warn("entity API fetch failed")
			return err
		}
		if err := json.Unmarshal(body, out); err != nil {
			final = &apperr.RemoteError{Op: "GET " + path, Message: fallback, Err: errors.Wrap(err, "decode response")}
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return err
	}
	return final
}

func (c *Client) send(ctx context.Context, method, path, fallback string, payload interface{}) error {
	_, err := c.do(ctx, method, path, fallback, payload)
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Error("entity API call failed")
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path, fallback string, payload interface{}) ([]byte, error) {
	op := method + " " + path

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &apperr.RemoteError{Op: op, Status: http.StatusUnauthorized, Message: err.Error(), Err: err}
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", op)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s", op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.RemoteError{Op: op, Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.RemoteError{Op: op, Status: resp.StatusCode, Message: fallback, Err: err}
	}
	if resp.StatusCode >= 300 {
		return nil, &apperr.RemoteError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: serverMessage(data, fallback),
			Err:     errors.Errorf("%s: unexpected status %d", op, resp.StatusCode),
		}
	}
	return data, nil
}

// decodeEach decodes list records one by one so a single malformed record
// cannot fail the whole collection.
func decodeEach[T any](log logrus.FieldLogger, kind string, raw []json.RawMessage) []T {
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			log.WithError(err).WithFields(logrus.Fields{"kind": kind, "index": i}).Warn("skipping malformed record")
			continue
		}
		out = append(out, v)
	}
	return out
}

// serverMessage extracts {"message": "..."} from an error body.
func serverMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}
