// Package session classifies the network context of a dashboard client session.
//
// A session is described by the location the browser observed (hostname, host,
// protocol) together with the execution environment's secure-context signal.
// The Classifier answers a fixed set of boolean questions about that session:
//   - IsAnonymitySession: the client reached us through a .onion address
//   - IsLocalNetworkSession: the client reached us through a .local address
//   - IsSecureTransport: the transport provides confidentiality
//   - IsAnonymityPlaintext / IsLocalNetworkPlaintext: warning predicates
//
// The predicates are intentionally independent rather than a single enum
// because call sites combine them differently. The anonymity check is always
// evaluated first and, when true, makes the session secure regardless of scheme.
//
// When a MockOverride is enabled, every answer comes from the override and the
// observed location is ignored. This is used for offline development and tests.
package session
