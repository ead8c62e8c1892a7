package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/microgram17/jobtracker/internal/dtos"
	"github.com/microgram17/jobtracker/internal/models"
)

// ErrUnavailable means the API could not be reached or failed on its side.
// The dashboard shows a generic message and lets the user retry.
var ErrUnavailable = errors.New("job tracker API unavailable")

// APIError is a 4xx answer from the API, e.g. not found, duplicate or validation.
type APIError struct {
	StatusCode int
	Body       dtos.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return e.Body.Message
	}
	return fmt.Sprintf("API returned %d", e.StatusCode)
}

// Client talks to the /api/v1 routes of the job tracker API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// List fetches applications, filtered by status unless status is empty.
func (c *Client) List(ctx context.Context, status models.Status) ([]models.Application, error) {
	path := "/applications"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	var apps []models.Application
	if err := c.do(ctx, http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodGet, appPath(id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) Create(ctx context.Context, req dtos.CreateApplicationRequest) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodPost, "/applications", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) Update(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodPut, appPath(id), patch, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodDelete, appPath(id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func appPath(id int64) string {
	return "/applications/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, method, path, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
