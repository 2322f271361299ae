package tor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ConnectOptions selects how Connect reaches the Tor network.
type ConnectOptions struct {
	// UseExternal uses the daemon at ProxyAddress instead of starting one.
	UseExternal bool
	// ProxyAddress is the external SOCKS5 proxy ("host:port").
	ProxyAddress string
	// StartupTimeout bounds the embedded daemon bootstrap.
	StartupTimeout time.Duration
	// Timeout is the per-request timeout of the returned client.
	Timeout time.Duration
	// Logger receives lifecycle messages. nil means slog.Default().
	Logger *slog.Logger
}

// Connect returns a verified Client and a function that releases it.
// With UseExternal the proxy is checked with CheckConnection; otherwise an
// embedded daemon is started and stopped again by the release function.
func Connect(ctx context.Context, opts ConnectOptions) (*Client, func() error, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	if opts.UseExternal {
		client, err := NewClient(opts.ProxyAddress, opts.Timeout)
		if err != nil {
			return nil, noop, err
		}
		if status := client.CheckConnection(ctx); status != ProxyStatusOK {
			return nil, noop, fmt.Errorf("%s: %w", opts.ProxyAddress, status.Err())
		}
		logger.Debug("using external Tor proxy", "proxy", opts.ProxyAddress)
		return client, noop, nil
	}

	embeddedOpts := []EmbeddedTorOption{WithEmbeddedLogger(logger)}
	if opts.StartupTimeout > 0 {
		embeddedOpts = append(embeddedOpts, WithStartupTimeout(opts.StartupTimeout))
	}
	embedded := NewEmbeddedTor(embeddedOpts...)
	if err := embedded.Start(ctx); err != nil {
		return nil, noop, err
	}
	client, err := embedded.NewClient(opts.Timeout)
	if err != nil {
		_ = embedded.Stop() //nolint:errcheck // best effort cleanup
		return nil, noop, err
	}
	return client, embedded.Stop, nil
}
