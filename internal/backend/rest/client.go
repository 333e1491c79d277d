// Package rest implements the service.Service interface against the todos HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todoctl/internal/config"
	"todoctl/internal/logging"
	"todoctl/internal/service"
)

const (
	// CollectionPath is the path of the task collection. The trailing slash is significant.
	CollectionPath = "/todos/"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	// maxBodySize caps how much of a success body is read.
	maxBodySize = 4 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// New creates a client for the configured base URL and timeout.
func New(cfg *config.Config, logger *log.Logger) *Client {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// List returns all tasks in server order.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	body, err := c.do(ctx, "list", http.MethodGet, CollectionPath, nil)
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := decode(body, taskListSchema, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create creates a task. The server assigns the id.
func (c *Client) Create(ctx context.Context, title string) (service.Task, error) {
	payload := struct {
		Title string `json:"title"`
	}{Title: title}

	body, err := c.do(ctx, "create", http.MethodPost, CollectionPath, payload)
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := decode(body, taskSchema, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Update applies a partial update and returns the full record.
func (c *Client) Update(ctx context.Context, id int64, upd service.TaskUpdate) (service.Task, error) {
	body, err := c.do(ctx, "update", http.MethodPut, taskPath(id), upd)
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := decode(body, taskSchema, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Delete removes a task. Any 2xx is success; the body is ignored.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, taskPath(id), nil)
	return err
}

func taskPath(id int64) string {
	return CollectionPath + strconv.FormatInt(id, 10)
}

// do performs one request/response exchange and returns the success body.
// Non-2xx responses become RemoteError without reading the body.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "request_id", reqID, "err", err)
		return nil, &service.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request complete",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &service.RemoteError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	return body, nil
}
