// Package client talks to the storefront over HTTP: the thank-you page's
// payment poll and the admin operations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"caseshop/internal/domain"
	"caseshop/internal/services"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultMaxAttempts  = 40
)

var (
	ErrGaveUp       = errors.New("payment not confirmed yet, please contact support if this persists")
	ErrUnauthorized = errors.New("you need to be logged in")
	ErrNotFound     = errors.New("not found")
)

// StatusError is a non-2xx response the client does not map to a sentinel.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront returned %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	PollInterval time.Duration
	MaxAttempts  int
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		httpClient:   &http.Client{Timeout: timeout},
		PollInterval: DefaultPollInterval,
		MaxAttempts:  DefaultMaxAttempts,
	}
}

type paymentStatus struct {
	IsPaid bool          `json:"isPaid"`
	Order  *domain.Order `json:"order"`
}

// PaymentStatus makes one status request. paid is false while the payment
// is still pending.
func (c *Client) PaymentStatus(ctx context.Context, orderID string) (order *domain.Order, paid bool, err error) {
	var out paymentStatus
	code, err := c.do(ctx, http.MethodGet, "/orders/"+orderID+"/payment-status", nil, &out)
	if err != nil {
		return nil, false, err
	}
	if code == http.StatusAccepted || !out.IsPaid {
		return nil, false, nil
	}
	return out.Order, true, nil
}

// AwaitPayment polls until the order is paid. Pending, not-found and server
// errors are retried every PollInterval; after MaxAttempts it returns
// ErrGaveUp. ErrUnauthorized ends polling immediately.
func (c *Client) AwaitPayment(ctx context.Context, orderID string) (*domain.Order, error) {
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		order, paid, err := c.PaymentStatus(ctx, orderID)
		switch {
		case errors.Is(err, ErrUnauthorized):
			return nil, err
		case err != nil:
			log.Printf("payment status attempt %d/%d: %v", attempt, c.MaxAttempts, err)
		case paid:
			return order, nil
		}

		if attempt == c.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
	return nil, ErrGaveUp
}

func (c *Client) SetOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	var out domain.Order
	if _, err := c.do(ctx, http.MethodPatch, "/admin/orders/"+orderID+"/status", map[string]string{"status": string(status)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*services.Dashboard, error) {
	var out services.Dashboard
	if _, err := c.do(ctx, http.MethodGet, "/admin/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.StatusCode, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return resp.StatusCode, ErrNotFound
	case resp.StatusCode >= 300:
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
