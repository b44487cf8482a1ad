package client

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

	"github.com/nhle/quicktasks/internal/model"
)

// ErrNotFound matches an *APIError with status 404 via errors.Is.
var ErrNotFound = errors.New("task not found")

// APIError is a non-2xx reply from the server. Message is the server's
// user-facing text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match 404 replies.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client is a thin HTTP client for the task REST API. Requests are never
// retried; the caller decides what to show the user.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL
// (e.g. http://localhost:5000).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// List fetches every task, newest first.
func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create adds a task with the given text.
func (c *Client) Create(ctx context.Context, text string) (model.Task, error) {
	var created model.Task
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &created); err != nil {
		return model.Task{}, err
	}
	return created, nil
}

// Toggle flips the completed flag of a task.
func (c *Client) Toggle(ctx context.Context, id string) (model.Task, error) {
	var updated model.Task
	path := "/api/tasks/" + url.PathEscape(id) + "/toggle"
	if err := c.do(ctx, http.MethodPatch, path, nil, &updated); err != nil {
		return model.Task{}, err
	}
	return updated, nil
}

// Delete removes a task and returns the server's confirmation message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var reply struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, &reply); err != nil {
		return "", err
	}
	return reply.Message, nil
}

// do builds the request, sends it once and decodes the JSON reply.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var reply struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &reply) == nil {
			apiErr.Message = reply.Message
		}
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}
	return nil
}
