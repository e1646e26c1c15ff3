// Package api implements the single point of outbound HTTP communication with
// the vizlab backend: base URL resolution, default headers, bearer-token
// attachment and response decoding.
//
// The client never retries and never refreshes tokens; failures are classified
// by status and returned to the caller as a typed *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dkovalev-net/vizlab/internal/common"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// DefaultTimeout bounds every request unless the caller's context is shorter.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the current bearer token. An empty string means no
// session is active and no Authorization header is attached. The session
// store is the only implementation in production code.
type TokenSource interface {
	Token() string
}

// Client is a configured backend HTTP client. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// New builds a Client for the given base URL. A zero timeout falls back to
// DefaultTimeout.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
}

// GetJSON issues GET path?query and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PostJSON issues POST path with a JSON body and decodes the response into out.
// A nil out discards the response body.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body, "application/json")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PutJSON issues PUT path with a JSON body and decodes the response into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, path, nil, body, "application/json")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Delete issues DELETE path, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// PostForm issues POST path with a form-encoded body (the auth endpoint's
// contract) and decodes the response into out.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body, "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PostMultipart issues POST path with a multipart body: each fields entry
// becomes a plain form field, and file (if non-nil) is attached under
// fileField with the given fileName. The response is decoded into out.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("multipart field %s: %w", k, err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			return fmt.Errorf("multipart file %s: %w", fileName, err)
		}
		if _, err := io.Copy(fw, file); err != nil {
			return fmt.Errorf("multipart copy %s: %w", fileName, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("multipart close: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// GetBinary issues GET path?query and returns the raw body for streaming
// (analytics export). The caller must close the returned reader. No timeout
// is imposed beyond the caller's context, so large downloads are not cut off
// mid-stream; cancel ctx to abort.
func (c *Client) GetBinary(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}

	// Strip the per-request timeout: binary exports may legitimately outlast
	// the JSON deadline. Context cancellation still applies.
	streaming := &http.Client{Transport: c.http.Transport}

	resp, err := streaming.Do(req)
	if err != nil {
		return nil, c.transportError(req, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, c.statusError(req, resp)
	}
	return resp.Body, nil
}

func encodeJSON(in any) (io.Reader, error) {
	if in == nil {
		return nil, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Attach the session token unless the caller already set one.
	if req.Header.Get("Authorization") == "" {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// do sends the request and decodes a 2xx body into out (skipped when out is
// nil). Non-2xx responses become a *Error carrying the backend detail.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(req, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(req, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", req.Method, req.URL.Path, common.ErrorDecode, err)
	}
	return nil
}

func (c *Client) transportError(req *http.Request, err error) error {
	c.log.Warn(req.Context(), "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
	return fmt.Errorf("%s %s: %w: %v", req.Method, req.URL.Path, common.ErrUnavailable, err)
}

func (c *Client) statusError(req *http.Request, resp *http.Response) error {
	// FastAPI error payloads look like {"detail": "..."}; fall back to the
	// raw body when the shape differs.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		detail = payload.Detail
		if detail == "" {
			detail = payload.Error
		}
	}
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
	}

	c.log.Warn(req.Context(), "request rejected",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	return &Error{Status: resp.StatusCode, Detail: detail, err: classify(resp.StatusCode)}
}
