package transport

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ErrUnavailable is an exported constant or variable used by the client pipeline.
var ErrUnavailable = errors.New("transport unavailable")

// Request is a transport-agnostic request descriptor. Path is resolved against the
// transport's base URL. The pipeline clones a Request before attaching credentials,
// so descriptors held by callers are never mutated by a replay.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Clone returns a deep copy of the request descriptor with an initialized header map.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}

	clone := &Request{
		Method: r.Method,
		Path:   r.Path,
		Header: make(http.Header, len(r.Header)),
	}
	for k, vs := range r.Header {
		next := make([]string, len(vs))
		copy(next, vs)
		clone.Header[k] = next
	}
	if r.Query != nil {
		clone.Query = make(url.Values, len(r.Query))
		for k, vs := range r.Query {
			next := make([]string, len(vs))
			copy(next, vs)
			clone.Query[k] = next
		}
	}
	if r.Body != nil {
		clone.Body = make([]byte, len(r.Body))
		copy(clone.Body, r.Body)
	}
	return clone
}

// Response carries the outcome of one completed HTTP exchange. Unauthorized is true
// exactly when the backend answered 401.
type Response struct {
	StatusCode   int
	Header       http.Header
	Body         []byte
	Unauthorized bool
}

// Transport sends a fully-formed request and reports the classified outcome.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}
