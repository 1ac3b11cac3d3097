package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	apperrors "github.com/kbukum/poolfetch/errors"
)

// Init carries per-call overrides, mirroring a fetch init object.
type Init struct {
	// Method overrides the request method.
	Method string
	// Headers are merged over the request's headers; Init wins per key.
	Headers map[string]string
	// Body replaces the request body. Accepts string, []byte, io.Reader,
	// url.Values, fmt.Stringer, or any value that formats with fmt.Sprint.
	Body any
}

// outbound is a fetch call normalised to URL, method, headers and body.
type outbound struct {
	url    *url.URL
	method string
	header http.Header
	body   []byte
}

func (o *outbound) origin() string {
	return o.url.Scheme + "://" + o.url.Host
}

// fromURL normalises a bare URL fetch.
func (c *Client) fromURL(rawURL string, init *Init) (*outbound, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	out := &outbound{url: u, method: c.config.DefaultMethod, header: c.defaultHeaders()}
	if init != nil {
		if init.Method != "" {
			out.method = strings.ToUpper(init.Method)
		}
		mergeHeaders(out.header, init.Headers)
		out.body = convertBody(init.Body)
	}
	return out, nil
}

// fromRequest normalises a fetch of an existing request. The request body is
// read at most once; a drained body yields an empty body and an unreadable
// one yields none.
func (c *Client) fromRequest(req *http.Request, init *Init) (*outbound, error) {
	if req == nil || req.URL == nil {
		return nil, apperrors.InvalidInput("request", "request and its URL are required")
	}
	u, err := parseURL(req.URL.String())
	if err != nil {
		return nil, err
	}

	out := &outbound{url: u, method: req.Method, header: c.defaultHeaders()}
	if out.method == "" {
		out.method = c.config.DefaultMethod
	}
	for key, values := range req.Header {
		out.header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	removeHopHeaders(out.header)

	if init != nil {
		if init.Method != "" {
			out.method = strings.ToUpper(init.Method)
		}
		mergeHeaders(out.header, init.Headers)
		if init.Body != nil {
			out.body = convertBody(init.Body)
			return out, nil
		}
	}
	out.body = readBodyOnce(req)
	return out, nil
}

// hopHeaders apply to a single connection and are not forwarded.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// removeHopHeaders deletes hop-by-hop headers, including any named by
// Connection.
func removeHopHeaders(h http.Header) {
	for _, v := range h.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = textproto.TrimString(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopHeaders {
		h.Del(name)
	}
}

func (c *Client) defaultHeaders() http.Header {
	h := make(http.Header, len(c.config.Headers))
	mergeHeaders(h, c.config.Headers)
	return h
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, apperrors.InvalidInput("url", "malformed URL").WithCause(err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, apperrors.InvalidInput("url", fmt.Sprintf("absolute URL required, got %q", rawURL))
	}
	return u, nil
}

// mergeHeaders sets every entry of src on dst, replacing existing values.
func mergeHeaders(dst http.Header, src map[string]string) {
	for k, v := range src {
		dst.Set(k, v)
	}
}

func readBodyOnce(req *http.Request) []byte {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil
	}
	return data
}

// convertBody turns an Init body into bytes.
func convertBody(body any) []byte {
	switch v := body.(type) {
	case nil:
		return nil
	case string:
		return []byte(v)
	case []byte:
		return v
	case *bytes.Buffer:
		return bytes.Clone(v.Bytes())
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil
		}
		return data
	case url.Values:
		return []byte(v.Encode())
	case fmt.Stringer:
		return []byte(v.String())
	default:
		return []byte(fmt.Sprint(v))
	}
}
