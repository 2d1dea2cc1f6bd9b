package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTP sends request descriptors over net/http against a fixed base URL.
type HTTP struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewHTTP describes the newhttp operation and its observable behavior.
//
// NewHTTP may return an error when input validation, dependency calls, or security checks fail.
// NewHTTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHTTP(client *http.Client, baseURL, userAgent string) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTP{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (t *HTTP) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrUnavailable)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := t.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if t.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrUnavailable, err)
	}

	return &Response{
		StatusCode:   httpResp.StatusCode,
		Header:       httpResp.Header,
		Body:         payload,
		Unauthorized: httpResp.StatusCode == http.StatusUnauthorized,
	}, nil
}
