package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/holdem/internal/api/apierr"
	"github.com/mcoot/holdem/internal/api/request"
	"github.com/mcoot/holdem/internal/api/response"
)

const apiPrefix = "/api/v1"

// Client talks to the server's JSON API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is an error response returned by the server
type APIError struct {
	Status int
	apierr.APIError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Health checks the server is up
func (c *Client) Health(ctx context.Context) (response.Health, error) {
	var out response.Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// ListTables returns the public tables
func (c *Client) ListTables(ctx context.Context) (response.TableList, error) {
	var out response.TableList
	err := c.do(ctx, http.MethodGet, "/tables", nil, &out)
	return out, err
}

// CreateTable opens a table
func (c *Client) CreateTable(ctx context.Context, req request.CreateTableRequest) (response.Table, error) {
	var out response.Table
	err := c.do(ctx, http.MethodPost, "/tables", req, &out)
	return out, err
}

// GetTable returns a table with the public view of its game
func (c *Client) GetTable(ctx context.Context, id string) (response.TableDetail, error) {
	var out response.TableDetail
	err := c.do(ctx, http.MethodGet, "/tables/"+url.PathEscape(id), nil, &out)
	return out, err
}

// Hands returns a table's recent hands, newest first. A zero limit
// leaves the page size to the server.
func (c *Client) Hands(ctx context.Context, id string, limit int) (response.HandList, error) {
	path := "/tables/" + url.PathEscape(id) + "/hands"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out response.HandList
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp apierr.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error.Code != "" {
			return &APIError{Status: resp.StatusCode, APIError: errResp.Error}
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
