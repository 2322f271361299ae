package session

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// Protocol values as reported by a browser location (the trailing colon is kept).
const (
	ProtocolHTTP  = "http:"
	ProtocolHTTPS = "https:"
)

// Location errors.
var (
	// ErrEmptyLocation is returned when ParseLocation receives an empty string.
	ErrEmptyLocation = errors.New("location cannot be empty")
	// ErrUnsupportedScheme is returned when the location scheme is neither http nor https.
	ErrUnsupportedScheme = errors.New("unsupported location scheme: expected http or https")
	// ErrEmptyHostname is returned when the location has no hostname.
	ErrEmptyHostname = errors.New("location has no hostname")
)

// Location is the endpoint a client session observed.
// It mirrors the hostname/host/protocol triple of a browser location and is
// immutable for the lifetime of a session.
type Location struct {
	// Hostname is the host without port or scheme (e.g. "abc.onion").
	Hostname string `json:"hostname" yaml:"hostname"`
	// Host is the hostname plus an optional ":port" (e.g. "abc.onion:8080").
	Host string `json:"host" yaml:"host"`
	// Protocol is "http:" or "https:".
	Protocol string `json:"protocol" yaml:"protocol"`
}

// defaultPorts are omitted from Host the same way browsers do.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// ParseLocation builds a Location from a URL string such as
// "https://embassy.local:8443/apps". A missing scheme defaults to http.
// Only the scheme and authority are used; path, query and fragment are ignored.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, ErrEmptyLocation
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", raw, err)
	}

	scheme := strings.ToLower(u.Scheme)
	defaultPort, ok := defaultPorts[scheme]
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return Location{}, ErrEmptyHostname
	}
	// Browsers keep the brackets around IPv6 literals in location.hostname.
	if strings.Contains(hostname, ":") {
		hostname = "[" + hostname + "]"
	}

	host := hostname
	if port := u.Port(); port != "" && port != defaultPort {
		host = hostname + ":" + port
	}

	return Location{
		Hostname: hostname,
		Host:     host,
		Protocol: scheme + ":",
	}, nil
}

// MustParseLocation is like ParseLocation but panics on error.
// Use only for known-valid locations in tests or initialization.
func MustParseLocation(raw string) Location {
	loc, err := ParseLocation(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// String returns the location as "protocol//host".
func (l Location) String() string {
	return l.Protocol + "//" + l.Host
}

// SecureContextFor reports whether a browser would treat a page served from loc
// as a secure context: anything served over https, plus loopback origins
// (localhost, *.localhost, 127.0.0.0/8 and ::1) even over plain http.
func SecureContextFor(loc Location) bool {
	if loc.Protocol == ProtocolHTTPS {
		return true
	}

	hostname := strings.ToLower(loc.Hostname)
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}

	addr, err := netip.ParseAddr(strings.Trim(hostname, "[]"))
	if err != nil {
		return false
	}
	return addr.IsLoopback()
}

// Environment supplies the observed location and the execution environment's
// secure-context signal. The classifier queries it once, at construction.
type Environment interface {
	Location() Location
	IsSecureContext() bool
}

// StaticEnvironment is an Environment backed by fixed values.
type StaticEnvironment struct {
	loc    Location
	secure bool
}

// NewStaticEnvironment returns an Environment whose secure-context signal is
// derived from the location with SecureContextFor.
func NewStaticEnvironment(loc Location) StaticEnvironment {
	return StaticEnvironment{loc: loc, secure: SecureContextFor(loc)}
}

// NewStaticEnvironmentWithSecurity returns an Environment with an explicit
// secure-context signal, for hosts that know better than the heuristic
// (for example a TLS-terminating proxy in front of a plain http listener).
func NewStaticEnvironmentWithSecurity(loc Location, secure bool) StaticEnvironment {
	return StaticEnvironment{loc: loc, secure: secure}
}

// Location returns the fixed location.
func (e StaticEnvironment) Location() Location {
	return e.loc
}

// IsSecureContext returns the fixed secure-context signal.
func (e StaticEnvironment) IsSecureContext() bool {
	return e.secure
}
