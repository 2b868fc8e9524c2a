package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/standings/internal/domain/model"
)

// BatchResult is one entry of a batch response.
type BatchResult struct {
	DivisionID string         `json:"divisionId"`
	Ranking    *model.Ranking `json:"ranking,omitempty"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client talks to the standings HTTP API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if out.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, out.Status)
	}
	return nil
}

// Rank posts one division to /v1/standings.
func (c *Client) Rank(ctx context.Context, d model.Division) (model.Ranking, error) {
	body := map[string]any{
		"competitors": d.Competitors,
		"matches":     d.Matches,
	}
	if len(d.Tiebreakers) > 0 {
		body["tiebreakers"] = d.Tiebreakers
	}
	var out model.Ranking
	err := c.do(ctx, http.MethodPost, "/v1/standings", body, &out)
	return out, err
}

// RankBatch posts divisions to /v1/standings/batch.
func (c *Client) RankBatch(ctx context.Context, divisions []model.Division) ([]BatchResult, error) {
	var out struct {
		Results []BatchResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/standings/batch", map[string]any{"divisions": divisions}, &out); err != nil {
		return nil, err
	}
	if len(out.Results) != len(divisions) {
		return nil, fmt.Errorf("%w: %d results for %d divisions", ErrUnexpected, len(out.Results), len(divisions))
	}
	return out.Results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &e) == nil {
			se.Code, se.Message = e.Code, e.Message
		}
		return se
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrUnexpected, path, err)
	}
	return nil
}
