// Package probe checks that launch URLs actually answer.
//
// Onion URLs are fetched through Tor; LAN URLs are fetched directly and the
// device's self-signed certificate is accepted. Each probe records the HTTP
// status, the page title and the latency.
package probe
