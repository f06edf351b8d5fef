// Package reseller is the client for the upstream SMM panel API.
//
// The panel exposes a single endpoint taking form-encoded POSTs with a
// secret key, an action (services, add, status) and action parameters, and
// answers with JSON. Responses are loosely typed upstream (numbers arrive as
// strings or numbers depending on the panel mood), so scalar fields are
// decoded through flexString.
package reseller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/boostbd/smmpanel/internal/logger"
)

const requestTimeout = 5 * time.Second

// Error codes
const (
	CodeUnavailable = "unavailable" // network error, timeout or non-200 status
	CodeBadPayload  = "bad-payload" // response body is not the JSON we expect
	CodeUpstream    = "upstream"    // panel answered with an explicit error field
)

type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("reseller: code: %s, error: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

// flexString decodes a JSON string, number, bool or null into a string
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	*f = flexString(s)
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// RawService is one row of the panel's `services` response, untouched by any
// currency conversion
type RawService struct {
	Service  flexString `json:"service"`
	ID       flexString `json:"id"`
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Rate     flexString `json:"rate"`
	Min      flexString `json:"min"`
	Max      flexString `json:"max"`
	Type     string     `json:"type"`
	Refill   bool       `json:"refill"`
	Cancel   bool       `json:"cancel"`
}

// OrderStatus is the panel's `status` response
type OrderStatus struct {
	Status     string     `json:"status"`
	Charge     flexString `json:"charge"`
	StartCount flexString `json:"start_count"`
	Remains    flexString `json:"remains"`
	Currency   string     `json:"currency"`
	ErrorMsg   string     `json:"error"`
}

type Client struct {
	BaseURL string

	apiKey string
	client *http.Client
	logger logger.Logger
}

func NewClient(baseURL string, apiKey string, l logger.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
		logger:  l,
	}
}

// Services fetches the raw service list
func (c *Client) Services(ctx context.Context) ([]RawService, error) {
	raw, err := c.Relay(ctx, "services", nil)
	if err != nil {
		return nil, err
	}

	// The panel returns either a bare array or {"services": [...]}
	var services []RawService
	if err := json.Unmarshal(raw, &services); err == nil {
		return services, nil
	}

	var wrapped struct {
		Services []RawService `json:"services"`
		ErrorMsg string       `json:"error"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, newError(CodeBadPayload, fmt.Errorf("unexpected services payload: %w", err))
	}
	if wrapped.ErrorMsg != "" {
		return nil, newError(CodeUpstream, fmt.Errorf("panel error: %s", wrapped.ErrorMsg))
	}

	return wrapped.Services, nil
}

// AddOrder places an order and returns the provider order id.
// A response without an order id means the panel rejected the order.
func (c *Client) AddOrder(ctx context.Context, serviceID string, link string, quantity int) (string, error) {
	raw, err := c.Relay(ctx, "add", map[string]string{
		"service":  serviceID,
		"link":     link,
		"quantity": strconv.Itoa(quantity),
	})
	if err != nil {
		return "", err
	}

	var res struct {
		Order    flexString `json:"order"`
		ErrorMsg string     `json:"error"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", newError(CodeBadPayload, fmt.Errorf("unexpected add payload: %w", err))
	}

	switch {
	case res.ErrorMsg != "":
		return "", newError(CodeUpstream, fmt.Errorf("panel error: %s", res.ErrorMsg))
	case res.Order == "":
		return "", newError(CodeUpstream, fmt.Errorf("no order id in panel response"))
	}

	return res.Order.String(), nil
}

// GetOrderStatus fetches the provider-reported status for a placed order
func (c *Client) GetOrderStatus(ctx context.Context, providerOrderID string) (OrderStatus, error) {
	var status OrderStatus

	raw, err := c.Relay(ctx, "status", map[string]string{"order": providerOrderID})
	if err != nil {
		return status, err
	}

	if err := json.Unmarshal(raw, &status); err != nil {
		return status, newError(CodeBadPayload, fmt.Errorf("unexpected status payload: %w", err))
	}
	if status.ErrorMsg != "" {
		return status, newError(CodeUpstream, fmt.Errorf("panel error: %s", status.ErrorMsg))
	}
	if status.Status == "" {
		return status, newError(CodeBadPayload, fmt.Errorf("no status in panel response"))
	}

	return status, nil
}

// Relay posts an action with the injected key and returns the panel's JSON
// verbatim. The proxy endpoint serves the raw message to the web client
// untouched; typed helpers above decode it further.
func (c *Client) Relay(ctx context.Context, action string, params map[string]string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("action", action)
	for key, value := range params {
		form.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, newError(CodeUnavailable, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(CodeUnavailable, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Panel answered with unexpected status", "status_code", resp.StatusCode, "action", action)
		return nil, newError(CodeUnavailable, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.logger.Warn("Panel answered with non-JSON body", "action", action, "error", err)
		return nil, newError(CodeBadPayload, fmt.Errorf("invalid response from provider API: %w", err))
	}

	c.logger.Debug("Panel response", "action", action, "size", len(raw))
	return raw, nil
}
