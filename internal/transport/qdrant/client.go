package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

const driver = "qdrant"

// Client is a REST client to one Qdrant collection. It implements
// usecase/document.VectorIndex with cosine distance.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	http       *http.Client
	logger     *zap.Logger
}

// Config holds the Qdrant connection settings.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// APIError is a non-2xx Qdrant response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("qdrant %s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("qdrant %s %s: %d", e.Method, e.Path, e.StatusCode)
}

// NewClient creates a Qdrant client. No request is made until Init.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Init recreates the collection with vectors of size dim and cosine distance.
// A missing collection is not an error.
func (c *Client) Init(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("invalid dimension %d", dim)
	}

	err := c.do(ctx, "init", http.MethodDelete, c.collectionPath(), nil, nil)
	var apiErr *APIError
	if err != nil && (!errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound) {
		return fmt.Errorf("delete collection %s: %w", c.collection, err)
	}

	body := createCollectionRequest{Vectors: vectorParams{Size: dim, Distance: "Cosine"}}
	if err := c.do(ctx, "init", http.MethodPut, c.collectionPath(), body, nil); err != nil {
		return fmt.Errorf("create collection %s: %w", c.collection, err)
	}

	c.logger.Debug("qdrant collection created",
		zap.String("collection", c.collection), zap.Int("dimensions", dim))
	return nil
}

// Upsert writes one point keyed by the document id and waits for it to be indexed.
func (c *Client) Upsert(ctx context.Context, doc domain.Document) error {
	body := upsertRequest{Points: []point{{
		ID:      doc.ID,
		Vector:  doc.Vector,
		Payload: payload{Text: doc.Text},
	}}}
	if err := c.do(ctx, "upsert", http.MethodPut, c.collectionPath()+"/points?wait=true", body, nil); err != nil {
		return fmt.Errorf("upsert point %d: %w", doc.ID, err)
	}
	return nil
}

// Search returns the payload texts of the limit nearest points, best first.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}

	body := searchRequest{Vector: vector, Limit: limit, WithPayload: true}
	var resp searchResponse
	if err := c.do(ctx, "search", http.MethodPost, c.collectionPath()+"/points/search", body, &resp); err != nil {
		return nil, fmt.Errorf("search %s: %w", c.collection, err)
	}

	texts := make([]string, 0, len(resp.Result))
	for _, r := range resp.Result {
		texts = append(texts, r.Payload.Text)
	}
	return texts, nil
}

// Ping checks that the Qdrant server answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, "ping", http.MethodGet, "/readyz", nil, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) collectionPath() string {
	return "/collections/" + url.PathEscape(c.collection)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observe(op, "error", start)
		return fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		observe(op, "error", start)
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    extractStatusError(resp.Body),
		}
	}
	observe(op, "success", start)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func observe(op, status string, start time.Time) {
	metrics.BackendRequestDuration.WithLabelValues(driver, op, status).Observe(time.Since(start).Seconds())
}

// extractStatusError pulls "status.error" out of a Qdrant error body.
func extractStatusError(r io.Reader) string {
	var parsed struct {
		Status struct {
			Error string `json:"error"`
		} `json:"status"`
	}
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &parsed) == nil {
		return parsed.Status.Error
	}
	return ""
}
