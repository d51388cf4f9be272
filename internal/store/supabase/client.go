// Package supabase is a small client for the parts of Supabase the service
// uses: the PostgREST row API (copy history), the GoTrue auth API (magic
// links, token refresh) and the GoTrue admin API (subscription flag).
package supabase

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

	"github.com/MrSnakeDoc/bundlepitch/internal/utils"
)

// ErrUnauthorized is returned when Supabase rejects the credentials sent.
var ErrUnauthorized = errors.New("supabase: unauthorized")

const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from Supabase.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// Unwrap maps 401/403 answers to ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Config configures a Client.
type Config struct {
	URL        string
	ServiceKey string
	AnonKey    string // public key for end-user auth calls, defaults to ServiceKey
	Table      string // history table, defaults to "copy_history"

	HTTPClient *http.Client
}

// Client talks to one Supabase project.
type Client struct {
	base       string
	serviceKey string
	anonKey    string
	table      string
	http       *http.Client
}

func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid supabase url %q", cfg.URL)
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("supabase service key is required")
	}

	c := &Client{
		base:       u.String(),
		serviceKey: cfg.ServiceKey,
		anonKey:    cfg.AnonKey,
		table:      cfg.Table,
		http:       cfg.HTTPClient,
	}
	if c.anonKey == "" {
		c.anonKey = c.serviceKey
	}
	if c.table == "" {
		c.table = "copy_history"
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	return c, nil
}

// newRequest builds a request against path, authenticated with key.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, key string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON answer into out (when non-nil).
// The response is returned with its body already closed.
func (c *Client) do(req *http.Request, out any) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, decodeError(resp)
	}

	if out != nil && req.Method != http.MethodHead {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("decode %s response: %w", req.URL.Path, err)
		}
	}
	return resp, nil
}

// decodeError reads the PostgREST or GoTrue error envelope.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var env struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(data, &env) == nil {
		switch {
		case env.ErrorCode != "":
			apiErr.Code = env.ErrorCode
		case env.Error != "":
			apiErr.Code = env.Error
		}
		if s, ok := env.Code.(string); ok && apiErr.Code == "" {
			apiErr.Code = s
		}
		for _, m := range []string{env.Message, env.Msg, env.ErrorDescription} {
			if m != "" {
				apiErr.Message = m
				break
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
