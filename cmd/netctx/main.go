// Package main provides the entry point for the netctx CLI.
//
// netctx works out how a self-hosted dashboard session reaches the device
// (Tor, LAN or loopback) and, for every installed package, which address and
// URL open the package's user interface from that session.
//
// Usage:
//
//	netctx classify --location http://embassy.local
//	netctx resolve --catalog packages.yaml
//	netctx lint --catalog packages.yaml
//	netctx probe --catalog packages.yaml
//
// See --help for all available options.
package main

// main is the entry point for netctx.
func main() {
	Execute()
}
