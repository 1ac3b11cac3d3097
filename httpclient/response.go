package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const unknownStatus = "Unknown Status"

var statusTexts = map[int]string{
	http.StatusOK:                  "OK",
	http.StatusCreated:             "Created",
	http.StatusAccepted:            "Accepted",
	http.StatusNoContent:           "No Content",
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Unprocessable Entity",
	http.StatusTooManyRequests:     "Too Many Requests",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusBadGateway:          "Bad Gateway",
	http.StatusServiceUnavailable:  "Service Unavailable",
	http.StatusGatewayTimeout:      "Gateway Timeout",
}

// StatusText returns the reason phrase for code, or "Unknown Status".
func StatusText(code int) string {
	if text, ok := statusTexts[code]; ok {
		return text
	}
	return unknownStatus
}

// Response is the result of a fetch.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// StatusText is the reason phrase.
	StatusText string
	// Header holds the response headers.
	Header http.Header
	// Body is the raw response body.
	Body []byte
	// Fallback is true when the response came from the direct fallback request.
	Fallback bool
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Reader returns a fresh reader over the body on every call.
func (r *Response) Reader() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(r.Body))
}

// fallbackStatusText keeps the reason phrase the upstream sent.
func fallbackStatusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)
	if text == "" {
		return StatusText(resp.StatusCode)
	}
	return text
}
