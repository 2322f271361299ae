package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMaskAs is returned when a mask value is not one of tor, local, localhost or none.
var ErrInvalidMaskAs = errors.New("invalid maskAs value: expected tor, local, localhost or none")

// MaskAs selects which kind of session a mock override pretends to be.
type MaskAs string

const (
	// MaskAsNone answers every network-kind question with false.
	MaskAsNone MaskAs = "none"
	// MaskAsTor pretends to be an anonymity-network (.onion) session.
	MaskAsTor MaskAs = "tor"
	// MaskAsLocal pretends to be a local-network (.local) session.
	MaskAsLocal MaskAs = "local"
	// MaskAsLocalhost pretends to be a loopback session.
	MaskAsLocalhost MaskAs = "localhost"
)

// ParseMaskAs converts a configuration string to a MaskAs.
// The empty string is treated as MaskAsNone.
func ParseMaskAs(s string) (MaskAs, error) {
	switch MaskAs(strings.ToLower(strings.TrimSpace(s))) {
	case "", MaskAsNone:
		return MaskAsNone, nil
	case MaskAsTor:
		return MaskAsTor, nil
	case MaskAsLocal:
		return MaskAsLocal, nil
	case MaskAsLocalhost:
		return MaskAsLocalhost, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMaskAs, s)
	}
}

// String returns the configuration spelling of m.
func (m MaskAs) String() string {
	if m == "" {
		return string(MaskAsNone)
	}
	return string(m)
}

// MockOverride replaces location-based classification with fixed answers.
// The zero value is disabled.
type MockOverride struct {
	// Enabled switches every classifier answer to the override fields.
	Enabled bool
	// MaskAs is the session kind to pretend to be.
	MaskAs MaskAs
	// MaskAsHTTPS is the answer for every transport-security question.
	MaskAsHTTPS bool
}
