package tor

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/asaskevich/govalidator"
	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 handshake performed by CheckConnection.
const checkProxyTimeout = 2 * time.Second

// maxRedirects is the number of redirects a probe follows before it stops
// and reports the redirect response itself.
const maxRedirects = 5

// SOCKS5 protocol constants (RFC 1928).
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5CmdConnect   = 0x01
	socks5AddrTypeFQDN = 0x03

	// handshakeOnion is a syntactically valid but unused v3 onion hostname.
	// CheckConnection asks the proxy to CONNECT to it and only looks at
	// whether a SOCKS5 reply comes back.
	handshakeOnion = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaam2dqd.onion"
)

// Client routes connections through a Tor SOCKS5 proxy.
type Client struct {
	proxyAddress string
	dialer       proxy.ContextDialer
	timeout      time.Duration
}

// NewClient creates a client for the SOCKS5 proxy at proxyAddress ("host:port").
// timeout is applied to HTTP clients created by NewHTTPClient.
// No connection is made; call CheckConnection to verify the proxy.
func NewClient(proxyAddress string, timeout time.Duration) (*Client, error) {
	if !isValidProxyAddress(proxyAddress) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, proxyAddress)
	}

	// Tor's SOCKS port does not require authentication.
	d, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer for %s does not support contexts", proxyAddress)
	}

	return &Client{
		proxyAddress: proxyAddress,
		dialer:       cd,
		timeout:      timeout,
	}, nil
}

// isValidProxyAddress accepts host:port with a hostname or IP and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	return govalidator.IsDialString(address)
}

// ProxyAddress returns the configured proxy address.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// Timeout returns the request timeout used by HTTP clients of c.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// DialContext opens a TCP connection to address through Tor.
func (c *Client) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return c.dialer.DialContext(ctx, network, address)
}

// NewHTTPClient returns an HTTP client whose connections all go through Tor.
//
// Onion services authenticate themselves through their address, so TLS
// certificates are not verified. Compression is disabled because response
// sizes of compressed pages leak content to an observer of the circuit.
func (c *Client) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: c.dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // onion services use self-signed certificates
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// CheckConnection performs a SOCKS5 handshake and a CONNECT request against
// the proxy. A SOCKS5 reply of any kind, including "host unreachable",
// counts as a working proxy.
func (c *Client) CheckConnection(ctx context.Context) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return ProxyStatusCannotConnect
	}

	if status := negotiate(conn); status != ProxyStatusOK {
		return status
	}
	return requestConnect(conn, handshakeOnion, 80)
}

// negotiate offers the "no authentication" method and checks the reply.
func negotiate(conn net.Conn) ProxyStatus {
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	reply := make([]byte, 2)
	if _, err := io.ReadFull(conn, reply); err != nil {
		return readFailure(err)
	}
	if reply[0] != socks5Version || reply[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// requestConnect sends a CONNECT for host:port and checks that a SOCKS5
// reply header comes back.
func requestConnect(conn net.Conn, host string, port uint16) ProxyStatus {
	req := make([]byte, 0, 7+len(host))
	req = append(req, socks5Version, socks5CmdConnect, 0x00, socks5AddrTypeFQDN, byte(len(host)))
	req = append(req, host...)
	req = append(req, byte(port>>8), byte(port))

	if _, err := conn.Write(req); err != nil {
		return ProxyStatusCannotConnect
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(conn, header); err != nil {
		return readFailure(err)
	}
	if header[0] != socks5Version {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// readFailure maps a failed read during the handshake to a status.
func readFailure(err error) ProxyStatus {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}
