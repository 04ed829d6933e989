// ABOUTME: HTTP client for a PostgREST-style table store used as a remote mirror
// ABOUTME: Writes are best-effort; callers keep local state when a request fails
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// Client talks to one table-store endpoint. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
	entropy io.Reader
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// requestID tags each outgoing request so server logs can be correlated.
func (c *Client) requestID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String()
}

func (c *Client) do(req *http.Request) error {
	id := c.requestID()
	req.Header.Set("X-Request-Id", id)
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("request %s: %s %s returned %s", id, req.Method, req.URL.Path, resp.Status)
	}
	c.logger.Debug("remote write ok",
		zap.String("request_id", id),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path))
	return nil
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/rest/v1/" + url.PathEscape(table)
}

// Insert posts one or more records to a table. records marshals to
// either a JSON object or array; the server accepts both.
func (c *Client) Insert(table string, records interface{}) error {
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s insert: %w", table, err)
	}
	req, err := http.NewRequest(http.MethodPost, c.tableURL(table), bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req)
}

// Update patches the row with the given id.
func (c *Client) Update(table string, patch map[string]interface{}, id uuid.UUID) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encoding %s update: %w", table, err)
	}
	u := c.tableURL(table) + "?id=eq." + id.String()
	req, err := http.NewRequest(http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req)
}

// Delete removes the row with the given id.
func (c *Client) Delete(table string, id uuid.UUID) error {
	req, err := http.NewRequest(http.MethodDelete, c.tableURL(table)+"?id=eq."+id.String(), nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

// SelectAll fetches every row of a table into dest, which must be a
// pointer to a slice.
func (c *Client) SelectAll(ctx context.Context, table string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL(table)+"?select=*", nil)
	if err != nil {
		return err
	}
	id := c.requestID()
	req.Header.Set("X-Request-Id", id)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: GET %s returned %s", id, table, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding %s rows: %w", table, err)
	}
	return nil
}
