package session

import "strings"

const (
	// anonymitySuffix identifies Tor onion service hostnames.
	anonymitySuffix = ".onion"
	// localSuffix identifies mDNS hostnames on the local network segment.
	localSuffix = ".local"
	// localhostName is the only hostname treated as a loopback session.
	localhostName = "localhost"
)

// Classifier answers network-context questions about one client session.
// The location, the secure-context signal and the override are captured at
// construction and never re-read, so a Classifier is safe for concurrent use.
type Classifier struct {
	loc           Location
	secureContext bool
	override      MockOverride
}

// NewClassifier captures env and override.
// env is queried exactly once; later changes to it are not observed.
func NewClassifier(env Environment, override MockOverride) *Classifier {
	return &Classifier{
		loc:           env.Location(),
		secureContext: env.IsSecureContext(),
		override:      override,
	}
}

// IsAnonymitySession reports whether the session uses an anonymity-network address.
func (c *Classifier) IsAnonymitySession() bool {
	if c.override.Enabled {
		return c.override.MaskAs == MaskAsTor
	}
	return strings.HasSuffix(c.loc.Hostname, anonymitySuffix)
}

// IsLocalNetworkSession reports whether the session uses a local-network (.local) address.
func (c *Classifier) IsLocalNetworkSession() bool {
	if c.override.Enabled {
		return c.override.MaskAs == MaskAsLocal
	}
	return strings.HasSuffix(c.loc.Hostname, localSuffix)
}

func (c *Classifier) isLocalhostSession() bool {
	if c.override.Enabled {
		return c.override.MaskAs == MaskAsLocalhost
	}
	return c.loc.Hostname == localhostName
}

// IsSecureTransport reports whether the session's transport provides confidentiality.
// Anonymity-network sessions are secure regardless of scheme.
func (c *Classifier) IsSecureTransport() bool {
	if c.override.Enabled {
		return c.override.MaskAsHTTPS
	}
	return c.IsAnonymitySession() || c.secureContext
}

// IsHTTPS reports whether the session was served over the https scheme.
// Unlike IsSecureTransport it looks only at the scheme.
func (c *Classifier) IsHTTPS() bool {
	if c.override.Enabled {
		return c.override.MaskAsHTTPS
	}
	return c.loc.Protocol == ProtocolHTTPS
}

// IsAnonymityPlaintext reports an anonymity-network session without transport security.
func (c *Classifier) IsAnonymityPlaintext() bool {
	return c.IsAnonymitySession() && !c.IsSecureTransport()
}

// IsLocalNetworkPlaintext reports the one risky case: a LAN client talking
// plaintext to a non-loopback host.
func (c *Classifier) IsLocalNetworkPlaintext() bool {
	return !c.IsAnonymitySession() && !c.isLocalhostSession() && !c.IsSecureTransport()
}

// Hostname returns the captured hostname.
func (c *Classifier) Hostname() string {
	return c.loc.Hostname
}

// Host returns the captured host, including the port when present.
func (c *Classifier) Host() string {
	return c.loc.Host
}

// Protocol returns the captured protocol, e.g. "http:".
func (c *Classifier) Protocol() string {
	return c.loc.Protocol
}

// MockEnabled reports whether answers come from a mock override.
func (c *Classifier) MockEnabled() bool {
	return c.override.Enabled
}

// Kind returns a single label for the session, checking anonymity first.
// It exists for display; decision code should use the predicates.
func (c *Classifier) Kind() Kind {
	switch {
	case c.IsAnonymitySession():
		return KindAnonymity
	case c.IsLocalNetworkSession():
		return KindLocalNetwork
	case c.isLocalhostSession():
		return KindLocalhost
	default:
		return KindOther
	}
}

// Facts returns a snapshot of every predicate.
func (c *Classifier) Facts() Facts {
	return Facts{
		Location:              c.loc,
		Mocked:                c.override.Enabled,
		Kind:                  c.Kind(),
		AnonymitySession:      c.IsAnonymitySession(),
		LocalNetworkSession:   c.IsLocalNetworkSession(),
		LocalhostSession:      c.isLocalhostSession(),
		SecureTransport:       c.IsSecureTransport(),
		HTTPS:                 c.IsHTTPS(),
		AnonymityPlaintext:    c.IsAnonymityPlaintext(),
		LocalNetworkPlaintext: c.IsLocalNetworkPlaintext(),
	}
}

// Kind labels a session for display.
type Kind string

const (
	// KindAnonymity is an anonymity-network (.onion) session.
	KindAnonymity Kind = "tor"
	// KindLocalNetwork is a local-network (.local) session.
	KindLocalNetwork Kind = "lan"
	// KindLocalhost is a loopback session.
	KindLocalhost Kind = "localhost"
	// KindOther is anything else, typically a raw IP address.
	KindOther Kind = "other"
)

// Facts is a serializable snapshot of a Classifier.
type Facts struct {
	Location              Location `json:"location"`
	Mocked                bool     `json:"mocked"`
	Kind                  Kind     `json:"kind"`
	AnonymitySession      bool     `json:"anonymitySession"`
	LocalNetworkSession   bool     `json:"localNetworkSession"`
	LocalhostSession      bool     `json:"localhostSession"`
	SecureTransport       bool     `json:"secureTransport"`
	HTTPS                 bool     `json:"https"`
	AnonymityPlaintext    bool     `json:"anonymityPlaintext"`
	LocalNetworkPlaintext bool     `json:"localNetworkPlaintext"`
}

// Warning returns a human-readable insecure-connection warning, or "" when
// the session does not warrant one.
func (f Facts) Warning() string {
	switch {
	case f.AnonymityPlaintext:
		return "connected over Tor without transport security"
	case f.LocalNetworkPlaintext:
		return "connected over plain HTTP on the local network; traffic can be observed by other devices"
	default:
		return ""
	}
}
