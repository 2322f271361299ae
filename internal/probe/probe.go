package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/resolver"
	"github.com/nao1215/netctx/internal/tor"
)

// ErrNoTorClient is returned for onion URLs when the prober has no Tor client.
var ErrNoTorClient = errors.New("onion URL requires a Tor client")

const (
	defaultConcurrency = 5
	defaultTimeout     = 60 * time.Second
	defaultMaxBodySize = 1 << 20
	userAgent          = "netctx-probe/1"
)

// Transport names the network a probe used.
type Transport string

const (
	// TransportTor is used for onion URLs.
	TransportTor Transport = "tor"
	// TransportLAN is used for everything else.
	TransportLAN Transport = "lan"
)

// Result is the outcome of probing one package.
type Result struct {
	PackageID  string        `json:"packageId"`
	URL        string        `json:"url,omitempty"`
	Transport  Transport     `json:"transport,omitempty"`
	StatusCode int           `json:"statusCode,omitempty"`
	Title      string        `json:"title,omitempty"`
	Latency    time.Duration `json:"latency,omitempty"`
	Error      string        `json:"error,omitempty"`
	Skipped    bool          `json:"skipped,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

// Reachable reports whether the URL answered with a non-5xx status.
func (r Result) Reachable() bool {
	return !r.Skipped && r.Error == "" && r.StatusCode > 0 && r.StatusCode < http.StatusInternalServerError
}

// Prober fetches launch URLs with bounded concurrency.
type Prober struct {
	torHTTP     *http.Client
	lanHTTP     *http.Client
	concurrency int
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithTorClient routes onion URLs through c.
func WithTorClient(c *tor.Client) Option {
	return func(p *Prober) {
		p.torHTTP = c.NewHTTPClient()
	}
}

// WithLANClient replaces the HTTP client used for LAN URLs.
func WithLANClient(c *http.Client) Option {
	return func(p *Prober) {
		p.lanHTTP = c
	}
}

// WithConcurrency sets the number of simultaneous probes.
func WithConcurrency(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxBodySize limits how much of a page is read to find its title.
func WithMaxBodySize(n int64) Option {
	return func(p *Prober) {
		if n > 0 {
			p.maxBodySize = n
		}
	}
}

// WithLogger sets the logger for per-probe output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// New returns a Prober. Without WithTorClient, onion URLs fail with ErrNoTorClient.
func New(opts ...Option) *Prober {
	p := &Prober{
		concurrency: defaultConcurrency,
		timeout:     defaultTimeout,
		maxBodySize: defaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.lanHTTP == nil {
		p.lanHTTP = newLANClient()
	}
	return p
}

// newLANClient accepts the self-signed certificate a device serves on the LAN.
func newLANClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // LAN UIs use self-signed certificates
			},
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// ProbeAll probes every launchable resolution. Results are in input order;
// non-launchable packages are returned as skipped. A failing probe never
// stops the others. The returned error is only the context error.
func (p *Prober) ProbeAll(ctx context.Context, resolutions []resolver.Resolution) ([]Result, error) {
	results := make([]Result, len(resolutions))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, res := range resolutions {
		if reason := skipReason(res); reason != "" {
			results[i] = Result{PackageID: res.PackageID, Skipped: true, Reason: reason}
			continue
		}
		g.Go(func() error {
			r := p.Probe(gctx, res.PackageID, res.LaunchURL)
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines never return errors
	return results, ctx.Err()
}

func skipReason(res resolver.Resolution) string {
	switch {
	case res.Error != "":
		return res.Error
	case !res.Launchable:
		return fmt.Sprintf("not launchable (%s, %s)", res.State, res.Status)
	case res.LaunchURL == "":
		return "no launch URL"
	default:
		return ""
	}
}

// Probe fetches rawURL once and records the outcome.
func (p *Prober) Probe(ctx context.Context, packageID, rawURL string) Result {
	result := Result{PackageID: packageID, URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		result.Error = fmt.Sprintf("invalid URL %q", rawURL)
		return result
	}

	client := p.lanHTTP
	result.Transport = TransportLAN
	if model.IsOnionHost(u.Hostname()) {
		result.Transport = TransportTor
		if p.torHTTP == nil {
			result.Error = ErrNoTorClient.Error()
			return result
		}
		client = p.torHTTP
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		p.logger.Warn("probe failed", "package", packageID, "url", rawURL, "error", err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if isHTML(resp.Header.Get("Content-Type")) {
		result.Title = ExtractTitle(io.LimitReader(resp.Body, p.maxBodySize))
	}
	p.logger.Debug("probe finished",
		"package", packageID,
		"url", rawURL,
		"status", resp.StatusCode,
		"latency", result.Latency,
	)
	return result
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mediaType == "text/html" || mediaType == "application/xhtml+xml")
}
