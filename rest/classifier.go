package rest

import (
	"encoding/json"
	nethttp "net/http"
	"strconv"
	"strings"
)

// Response headers consumed by the classifier.
const (
	headerRequestID          = "x-request-id"
	headerRateLimitLimit     = "x-ratelimit-limit"
	headerRateLimitRemaining = "x-ratelimit-remaining"
	headerRateLimitReset     = "x-ratelimit-reset"
	headerRetryAfter         = "retry-after"
)

// errorPayload is the error body shape the platform returns. Decoding is
// best-effort: a malformed body simply yields the zero payload.
type errorPayload struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Errors  []FieldError `json:"errors"`
}

// classify maps a non-2xx response to its error kind. It never fails: a
// garbage body is treated as an empty payload and the HTTP status text
// stands in for the message. Every produced error carries the request ID
// extracted from the response.
func classify(status int, header nethttp.Header, body []byte) *Error {
	var payload errorPayload
	if len(body) > 0 {
		// Malformed error bodies are swallowed.
		_ = json.Unmarshal(body, &payload)
	}

	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	if message == "" {
		message = nethttp.StatusText(status)
	}

	var err *Error
	switch {
	case status == nethttp.StatusUnauthorized:
		err = NewAuthenticationError(message)
	case status == nethttp.StatusBadRequest || status == nethttp.StatusUnprocessableEntity:
		err = NewValidationError(message, status, payload.Errors)
	case status == nethttp.StatusNotFound:
		err = NewNotFoundError(message)
	case status == nethttp.StatusConflict:
		err = NewConflictError(message)
	case status == nethttp.StatusTooManyRequests:
		err = NewRateLimitError(message, parseRetryAfter(header), parseRateLimit(header))
	case status >= nethttp.StatusInternalServerError:
		err = NewServerError(message, status)
	default:
		err = NewAPIError(message, status, decodeDetails(body))
	}

	if payload.Code != "" {
		err.Code = payload.Code
	}
	err.RequestID = header.Get(headerRequestID)
	return err
}

// decodeDetails decodes the raw error payload into a generic map for the
// catch-all API error. Returns nil when the body is empty or not an object.
func decodeDetails(body []byte) map[string]any {
	if len(body) == 0 {
		return nil
	}
	var details map[string]any
	if err := json.Unmarshal(body, &details); err != nil {
		return nil
	}
	return details
}

// parseRetryAfter reads the retry-after header as integer seconds, zero
// when absent or non-numeric.
func parseRetryAfter(header nethttp.Header) int {
	v := header.Get(headerRetryAfter)
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

// parseRateLimit extracts RateLimitInfo from the x-ratelimit-* headers.
// All three must be present and parse as integers, otherwise nil.
func parseRateLimit(header nethttp.Header) *RateLimitInfo {
	limit, err := strconv.Atoi(header.Get(headerRateLimitLimit))
	if err != nil {
		return nil
	}
	remaining, err := strconv.Atoi(header.Get(headerRateLimitRemaining))
	if err != nil {
		return nil
	}
	reset, err := strconv.ParseInt(header.Get(headerRateLimitReset), 10, 64)
	if err != nil {
		return nil
	}
	return &RateLimitInfo{Limit: limit, Remaining: remaining, Reset: reset}
}

// isJSONContent reports whether the response content type is JSON.
func isJSONContent(header nethttp.Header) bool {
	ct := header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(strings.ToLower(ct))
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// isSuccessStatus reports whether a status code represents success (2xx).
func isSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
