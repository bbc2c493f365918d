package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/zendra/zendra-go/trace"
)

// doAttempt performs exactly one network attempt for the prepared request
// context. A received HTTP response of any status is a successful attempt;
// only transport-level failures are classified here, into timeout, abort,
// or network errors.
func (c *Client) doAttempt(ctx context.Context, rctx *RequestContext) (*nethttp.Response, []byte, *Error) {
	// A context already cancelled before the attempt starts counts as a
	// caller abort, not a transport failure.
	if ctx.Err() != nil {
		return nil, nil, NewAbortedError(ctx.Err())
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if len(rctx.Body) > 0 {
		body = bytes.NewReader(rctx.Body)
	}

	req, err := nethttp.NewRequestWithContext(attemptCtx, rctx.Method, rctx.URL, body)
	if err != nil {
		return nil, nil, NewNetworkError("failed to create HTTP request", err)
	}
	for key, value := range rctx.Headers {
		req.Header.Set(key, value)
	}

	if c.debug {
		c.logAttempt(rctx)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, c.classifyTransportError(ctx, attemptCtx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, c.classifyTransportError(ctx, attemptCtx, err)
	}
	return resp, respBody, nil
}

// classifyTransportError discriminates the three ways an attempt dies on
// the wire: the caller's context fired (abort), the per-attempt deadline
// fired (timeout), or the transport itself failed.
func (c *Client) classifyTransportError(ctx, attemptCtx context.Context, err error) *Error {
	if ctx.Err() != nil {
		return NewAbortedError(ctx.Err())
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return NewTimeoutError(c.timeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(c.timeout)
	}
	return NewNetworkError("request execution failed", err)
}

// buildURL resolves the full request URL from the client base URL, the
// request path, and the encoded query string.
func (c *Client) buildURL(req *Request) string {
	u := strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(req.Path, "/")
	if q := encodeQuery(req.Query); q != "" {
		u += "?" + q
	}
	return u
}

// encodeQuery serializes a query map. Nil values and typed nil pointers are
// omitted entirely; they never serialize as empty strings. Keys are emitted
// in sorted order so URLs are deterministic.
func encodeQuery(query map[string]any) string {
	if len(query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		v := query[k]
		if isNilValue(v) {
			continue
		}
		values.Set(k, queryValue(v))
	}
	return values.Encode()
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}

func queryValue(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		v = rv.Elem().Interface()
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// buildHeaders assembles the headers sent on every attempt of a request:
// bearer auth and JSON content negotiation always, the idempotency key when
// supplied, trace propagation when the context carries one, then the
// request's own headers, which win on collision.
func (c *Client) buildHeaders(ctx context.Context, req *Request) map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}
	if req.IdempotencyKey != "" {
		headers["X-Idempotency-Key"] = req.IdempotencyKey
	}
	if traceID, ok := trace.IDFromContext(ctx); ok {
		headers[trace.HeaderXRequestID] = traceID
	}
	if parent, ok := trace.ParentFromContext(ctx); ok {
		headers[trace.HeaderTraceParent] = parent
	}
	for key, value := range req.Headers {
		headers[key] = value
	}
	return headers
}

// logAttempt emits the debug trace for an outgoing attempt. Diagnostic
// only; it never affects control flow.
func (c *Client) logAttempt(rctx *RequestContext) {
	event := c.log.Debug().
		Str("method", rctx.Method).
		Str("url", rctx.URL).
		Int("attempt", rctx.Attempt).
		Interface("headers", redactHeaders(rctx.Headers))
	if len(rctx.Body) > 0 {
		event = event.Bytes("body", rctx.Body)
	}
	event.Msg("api request")
}

// redactHeaders masks credential-bearing header values before logging.
func redactHeaders(headers map[string]string) map[string]string {
	redacted := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") {
			v = "Bearer [REDACTED]"
		}
		redacted[k] = v
	}
	return redacted
}
