package hostutil

import "strings"

const (
	httpPrefix  = "http://"
	httpsPrefix = "https://"
)

// StripScheme removes literal "http://" and "https://" prefixes until none
// is left, so "http://https://x" becomes "x" and StripScheme is idempotent.
// Matching is exact and case-sensitive; any other input is returned unchanged.
func StripScheme(s string) string {
	for {
		switch {
		case strings.HasPrefix(s, httpPrefix):
			s = s[len(httpPrefix):]
		case strings.HasPrefix(s, httpsPrefix):
			s = s[len(httpsPrefix):]
		default:
			return s
		}
	}
}

// StripPort returns s up to, not including, the first colon.
//
// This is deliberately naive: "::1" becomes "" and "[fe80::1]:80" becomes
// "[fe80". Existing callers depend on it, so bracketed IPv6 literals are not
// special-cased.
func StripPort(s string) string {
	host, _, _ := strings.Cut(s, ":")
	return host
}

// HostOnly strips the scheme and then the port, e.g.
// "https://embassy.local:8443" becomes "embassy.local".
func HostOnly(s string) string {
	return StripPort(StripScheme(s))
}
