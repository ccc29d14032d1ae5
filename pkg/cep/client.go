package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://viacep.com.br/ws"
	errorBodyReadLimit   int64 = 1024
	postalCodeDigitCount       = 8
)

var (
	// ErrNotFound signals the postal code does not exist in the registry.
	ErrNotFound = errors.New("postal code not found")

	digitsOnlyRe = regexp.MustCompile(`[^0-9]`)
)

// Result is the normalized address data behind a postal code.
type Result struct {
	PostalCode   string
	Street       string
	Neighborhood string
	City         string
	State        string
}

// Client wraps the ViaCEP postal code lookup API.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// WithBaseURL overrides the configured lookup base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the postal lookup client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// Normalize strips formatting and validates the postal code shape.
func Normalize(raw string) (string, error) {
	digits := digitsOnlyRe.ReplaceAllString(raw, "")
	if len(digits) != postalCodeDigitCount {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("postal code must have %d digits", postalCodeDigitCount))
	}
	return digits, nil
}

// Lookup resolves a postal code into address components. A registry miss
// returns ErrNotFound so callers can keep previously entered fields.
func (c *Client) Lookup(ctx context.Context, postalCode string) (*Result, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "postal lookup client not configured")
	}
	normalized, err := Normalize(postalCode)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/json/", strings.TrimRight(c.baseURL, "/"), normalized)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build postal lookup request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute postal lookup request")
	}
	defer func() { _ = resp.Body.Close() }()

	// ViaCEP answers malformed codes with 400 and unknown codes with an
	// "erro" flag inside a 200 body.
	if resp.StatusCode == http.StatusBadRequest {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "postal code rejected by registry")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "postal lookup request failed")
	}

	var apiResp struct {
		CEP          string `json:"cep"`
		Street       string `json:"logradouro"`
		Neighborhood string `json:"bairro"`
		City         string `json:"localidade"`
		State        string `json:"uf"`
		Erro         bool   `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode postal lookup response")
	}

	if apiResp.Erro {
		return nil, ErrNotFound
	}

	return &Result{
		PostalCode:   normalized,
		Street:       apiResp.Street,
		Neighborhood: apiResp.Neighborhood,
		City:         apiResp.City,
		State:        apiResp.State,
	}, nil
}
