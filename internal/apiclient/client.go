// Package apiclient talks to the remote payments REST API.
package apiclient

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

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/config"
	"github.com/premiumshare/paytracker/internal/utils"
)

const defaultTimeout time.Duration = 30 * time.Second

// maxErrorBodyBytes limits how much of an error response is read to find the server message
const maxErrorBodyBytes int64 = 64 * 1024

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// do sends the request and decodes a successful JSON response into output. A nil output
// discards the response body.
func (c *Client) do(ctx context.Context, method string, path string, input any, output any) error {
	var body io.Reader
	if input != nil {
		raw, err := json.Marshal(input)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if input != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderXRequestID, utils.RequestIDFromContext(ctx))
	if traceParent := utils.GetTraceParent(ctx); traceParent != "" {
		req.Header.Set("sentry-trace", traceParent)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("API CLIENT", "message", "request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newAPIError(res, method, path)
	}
	if output == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	err = json.NewDecoder(res.Body).Decode(output)
	if err != nil && err != io.EOF {
		return fmt.Errorf("cannot decode the response of %s %s: %w", method, path, err)
	}
	return nil
}

func newAPIError(res *http.Response, method string, path string) error {
	apiErr := &apierrors.APIError{StatusCode: res.StatusCode, Method: method, Path: path}
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}
	parsed := errorBody{}
	if json.Unmarshal(raw, &parsed) == nil {
		apiErr.Message = parsed.Message
		if apiErr.Message == "" {
			apiErr.Message = parsed.Error
		}
	}
	slog.Debug("API CLIENT", "message", "request rejected", "method", method, "path", path, "status", res.StatusCode, "serverMessage", apiErr.Message)
	return apiErr
}

func escape(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return strings.Join(escaped, "/")
}

type ClientOption func(*Client) error

func WithBaseURL(baseURL *url.URL) ClientOption {
	return func(c *Client) error {
		if baseURL == nil {
			return fmt.Errorf("the base URL cannot be nil")
		}
		copied := *baseURL
		c.baseURL = &copied
		return nil
	}
}

// WithTransport sets the round tripper used for all requests, for example the
// authenticating transport of the token store.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) error {
		c.httpClient.Transport = transport
		return nil
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout < 0 {
			return fmt.Errorf("the timeout cannot be negative")
		}
		c.httpClient.Timeout = timeout
		return nil
	}
}

func WithConfig(apiConfig config.APIConfig) ClientOption {
	return func(c *Client) error {
		err := WithBaseURL(apiConfig.BaseURL)(c)
		if err != nil {
			return err
		}
		if apiConfig.Timeout > 0 {
			c.httpClient.Timeout = apiConfig.Timeout
		}
		return nil
	}
}

func NewClient(options ...ClientOption) (*Client, error) {
	c := Client{httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range options {
		err := opt(&c)
		if err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		return nil, fmt.Errorf("the base URL is not set")
	}
	return &c, nil
}
