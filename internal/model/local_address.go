package model

import (
	"net"
	"strings"

	"github.com/asaskevich/govalidator"
)

// LocalSuffix is the mDNS suffix of local-network hostnames.
const LocalSuffix = ".local"

// IsValidLocalAddress reports whether addr is a usable LAN address: a DNS name
// or IP literal, optionally followed by ":port". Schemes and paths are rejected
// because the address is later prefixed with a scheme verbatim.
func IsValidLocalAddress(addr string) bool {
	if addr == "" || strings.Contains(addr, "/") {
		return false
	}
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return govalidator.IsDialString(addr)
	}
	return govalidator.IsHost(addr)
}

// IsMDNSHost reports whether addr (optionally with a port) is a .local name.
func IsMDNSHost(addr string) bool {
	return strings.HasSuffix(hostPart(addr), LocalSuffix)
}
