package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

var centsPerUnit = decimal.NewFromInt(100)

// Package describes the parcel sent to the rate API.
type Package struct {
	WeightGrams int `json:"weight_grams"`
	LengthCM    int `json:"length_cm"`
	WidthCM     int `json:"width_cm"`
	HeightCM    int `json:"height_cm"`
}

// QuoteRequest is the payload for a rate calculation.
type QuoteRequest struct {
	OriginPostalCode      string  `json:"origin_postal_code"`
	DestinationPostalCode string  `json:"destination_postal_code"`
	Package               Package `json:"package"`
}

// Rate is one usable carrier option returned by the API.
type Rate struct {
	Carrier       string
	Service       string
	PriceCents    int
	EstimatedDays int
}

// Client wraps the carrier rate API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken sets the bearer token sent on each request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient builds the rate client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("shipping base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return client, nil
}

// Quote fetches carrier rates for the parcel. Candidates the carrier flags
// with an error, or that carry no parseable price, are dropped.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) ([]Rate, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shipping client not configured")
	}
	if strings.TrimSpace(req.OriginPostalCode) == "" || strings.TrimSpace(req.DestinationPostalCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination postal codes are required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal quote request")
	}

	url := fmt.Sprintf("%s/calculate", strings.TrimRight(c.baseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build quote request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute quote request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "quote request failed")
	}

	var apiResp []struct {
		Carrier      string `json:"company"`
		Service      string `json:"name"`
		Price        string `json:"price"`
		DeliveryDays int    `json:"delivery_time"`
		Error        string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode quote response")
	}

	rates := make([]Rate, 0, len(apiResp))
	for _, candidate := range apiResp {
		if candidate.Error != "" {
			continue
		}
		cents, ok := parsePriceCents(candidate.Price)
		if !ok {
			continue
		}
		rates = append(rates, Rate{
			Carrier:       candidate.Carrier,
			Service:       candidate.Service,
			PriceCents:    cents,
			EstimatedDays: candidate.DeliveryDays,
		})
	}

	return rates, nil
}

func parsePriceCents(raw string) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, false
	}
	if price.IsNegative() || price.IsZero() {
		return 0, false
	}
	return int(price.Mul(centsPerUnit).Round(0).IntPart()), true
}
