package catalog

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
	"strings"
	"time"
)

// StatusError is returned for replies the client has no sentinel for.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: status=%d detail=%q", e.Code, e.Detail)
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var h HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, &h)
	return h, err
}

func (c *Client) List(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, apiPrefix, nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id int) (Product, error) {
	var p Product
	err := c.do(ctx, http.MethodGet, apiPrefix+"/"+strconv.Itoa(id), nil, http.StatusOK, &p)
	return p, err
}

func (c *Client) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, apiPrefix+"/category/"+url.PathEscape(category), nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, p Product) (Product, error) {
	var created Product
	err := c.do(ctx, http.MethodPost, apiPrefix, p, http.StatusCreated, &created)
	return created, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/"+strconv.Itoa(id), nil, http.StatusOK, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return statusErr(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusErr(resp *http.Response) error {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		detail = string(body.Detail)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	default:
		return &StatusError{Code: resp.StatusCode, Detail: detail}
	}
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
