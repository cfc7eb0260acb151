// Package hasura implements mediastore.MediaStore against a Hasura GraphQL endpoint.
package hasura

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const (
	// HTTP client settings
	defaultTimeout = 30 * time.Second

	// Column type of the media tables' primary key.
	defaultIDType = "uuid"

	adminSecretHeader = "X-Hasura-Admin-Secret"
)

// Options configures a Client.
type Options struct {
	Endpoint    string
	AdminSecret string
	// Timeout bounds a single GraphQL round trip (default: 30s).
	Timeout time.Duration
	// IDType is the GraphQL scalar of the media tables' id column (default: uuid).
	IDType string
	Logger *slog.Logger
}

// Client is a Hasura GraphQL client for the media schema.
type Client struct {
	http        *http.Client
	endpoint    string
	adminSecret string
	idType      string
	logger      *slog.Logger
}

// New creates a new Hasura client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	idType := opts.IDType
	if idType == "" {
		idType = defaultIDType
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		endpoint:    opts.Endpoint,
		adminSecret: opts.AdminSecret,
		idType:      idType,
		logger:      logger,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors GraphQLErrors              `json:"errors"`
}

// execute posts one GraphQL document and decodes the named root field of
// the response data into out.
func (c *Client) execute(ctx context.Context, query string, vars map[string]any, field string, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(adminSecretHeader, c.adminSecret)

	c.logger.Debug("hasura request", "field", field)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return ErrServer
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var gr graphQLResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(gr.Errors) > 0 {
		return gr.Errors
	}

	raw, ok := gr.Data[field]
	if !ok {
		return fmt.Errorf("%w: missing field %q", ErrBadResponse, field)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}
