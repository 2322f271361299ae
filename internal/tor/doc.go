// Package tor provides the Tor connectivity used to probe onion launch URLs.
//
// A Client wraps a SOCKS5 dialer pointed at a Tor daemon, either an external
// one (usually 127.0.0.1:9050) or one started in-process through tornago's
// EmbeddedTor. Connect picks between the two.
package tor
