// Package supplier implements the hotel-API client the booking workflow
// consumes. It speaks JSON over HTTP to the hotel supplier: city lookup,
// hotel offers by city (paged through an opaque next link), offers by
// hotel, offer pricing and booking creation.
package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/hotel-booking-workflow/internal/obs"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
	metrics    *obs.Metrics
}

func New(baseURL, apiKey string, timeout time.Duration, log *slog.Logger, m *obs.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		metrics: m,
	}
}

// APIError is a non-2xx supplier response. The code and detail are logged
// for diagnostics; user-facing messages are the stages' concern.
type APIError struct {
	Status int
	Code   int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supplier returned status %d: [%d] %s: %s", e.Status, e.Code, e.Title, e.Detail)
}

type errorEnvelope struct {
	Errors []struct {
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Errors) > 0 {
		apiErr.Code = env.Errors[0].Code
		apiErr.Title = env.Errors[0].Title
		apiErr.Detail = env.Errors[0].Detail
	} else {
		apiErr.Title = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func (c *Client) do(ctx context.Context, capability, method, rawURL string, body, out any) error {
	start := time.Now()
	err := c.doOnce(ctx, method, rawURL, body, out)
	c.metrics.ObserveSupplierLatency(capability, time.Since(start).Seconds())
	if err != nil {
		c.metrics.IncSupplierFailure(capability)
		c.log.Warn("supplier call failed", "capability", capability, "error", err)
	}
	return err
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// resolve turns a possibly relative continuation link into an absolute
// URL on the supplier host. The link itself stays opaque.
func (c *Client) resolve(next string) (string, error) {
	ref, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("invalid continuation link: %w", err)
	}
	if ref.IsAbs() {
		return next, nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
