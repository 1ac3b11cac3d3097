package pool

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	apperrors "github.com/kbukum/poolfetch/errors"
)

// hostProfile maps hosts to ASCII the way a resolver would, but still
// accepts underscores found in internal service names.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.StrictDomainName(false),
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// ParseOrigin returns the canonical scheme://host[:port] of an origin or a
// full URL. Path, query, fragment and userinfo are discarded and default
// ports are dropped.
func ParseOrigin(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.InvalidOrigin(raw, "empty origin")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", apperrors.InvalidOrigin(raw, "malformed URL").WithCause(err)
	}

	scheme := strings.ToLower(u.Scheme)
	defaultPort, ok := defaultPorts[scheme]
	if !ok {
		return "", apperrors.InvalidOrigin(raw, "scheme must be http or https")
	}
	if u.Host == "" {
		return "", apperrors.InvalidOrigin(raw, "missing host")
	}

	host, err := normalizeHost(u.Hostname())
	if err != nil {
		return "", apperrors.InvalidOrigin(raw, "invalid host").WithCause(err)
	}

	port := u.Port()
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return "", apperrors.InvalidOrigin(raw, "invalid port")
		}
		port = strconv.Itoa(n)
	}
	if port == defaultPort {
		port = ""
	}

	if port != "" {
		return scheme + "://" + net.JoinHostPort(host, port), nil
	}
	if strings.Contains(host, ":") {
		return scheme + "://[" + host + "]", nil
	}
	return scheme + "://" + host, nil
}

func normalizeHost(host string) (string, error) {
	if host == "" {
		return "", apperrors.InvalidInput("host", "empty host")
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}
	ascii, err := hostProfile.ToASCII(host)
	if err != nil {
		return "", err
	}
	return strings.ToLower(ascii), nil
}
