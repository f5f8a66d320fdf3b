package wompi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyLink is returned when the gateway answers without a link id.
var ErrEmptyLink = errors.New("gateway returned empty payment link")

// TooManyRequestsError represents rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// RetryDelay reports how long the gateway asked callers to back off.
func (e TooManyRequestsError) RetryDelay() time.Duration {
	return e.RetryAfter
}

// StatusError is returned for any other unexpected gateway response.
type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("wompi error: status %d", e.Code)
}

// LinkRequest describes a single-use payment link for one order.
type LinkRequest struct {
	Name          string
	Description   string
	SKU           string
	AmountInCents int64
	Currency      string
	RedirectURL   string
	ExpiresAt     time.Time
}

// PaymentLink is the checkout target returned by the gateway.
type PaymentLink struct {
	ID  string
	URL string
}

// Gateway creates hosted checkout links.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, req LinkRequest) (*PaymentLink, error)
}

// HTTPClient implements Gateway via the Wompi REST API.
type HTTPClient struct {
	baseURL     *url.URL
	checkoutURL string
	privateKey  string
	httpClient  *http.Client
	logger      *slog.Logger
}

type linkPayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	SingleUse       bool   `json:"single_use"`
	CollectShipping bool   `json:"collect_shipping"`
	Currency        string `json:"currency"`
	AmountInCents   int64  `json:"amount_in_cents"`
	RedirectURL     string `json:"redirect_url,omitempty"`
	ExpiresAt       string `json:"expires_at,omitempty"`
	SKU             string `json:"sku,omitempty"`
}

type linkResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// NewHTTPClient creates a gateway client. timeout bounds every request.
func NewHTTPClient(apiURL, checkoutURL, privateKey string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse wompi url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("wompi url must be absolute")
	}
	if privateKey == "" {
		return nil, fmt.Errorf("wompi private key must be provided")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:     parsed,
		checkoutURL: strings.TrimRight(checkoutURL, "/"),
		privateKey:  privateKey,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreatePaymentLink registers a single-use link and returns its checkout URL.
func (c *HTTPClient) CreatePaymentLink(ctx context.Context, req LinkRequest) (*PaymentLink, error) {
	payload := linkPayload{
		Name:          req.Name,
		Description:   req.Description,
		SingleUse:     true,
		Currency:      req.Currency,
		AmountInCents: req.AmountInCents,
		RedirectURL:   req.RedirectURL,
		SKU:           req.SKU,
	}
	if !req.ExpiresAt.IsZero() {
		payload.ExpiresAt = req.ExpiresAt.UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "payment_links")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.privateKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var data linkResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("decode payment link: %w", err)
		}
		if data.Data.ID == "" {
			return nil, ErrEmptyLink
		}
		return &PaymentLink{ID: data.Data.ID, URL: c.checkoutURL + "/l/" + data.Data.ID}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("wompi request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, StatusError{Code: resp.StatusCode, Body: string(raw)}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
