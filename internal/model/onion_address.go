package model

import (
	"encoding/base32"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

// OnionAddress errors.
var (
	// ErrInvalidOnionAddress is returned when the address format is invalid.
	ErrInvalidOnionAddress = errors.New("invalid onion address format")
	// ErrEmptyOnionAddress is returned when the address is empty.
	ErrEmptyOnionAddress = errors.New("onion address cannot be empty")
	// ErrOnionChecksum is returned when a v3 address fails checksum verification.
	ErrOnionChecksum = errors.New("onion address checksum mismatch")
)

// OnionVersion represents the version of an onion address.
type OnionVersion int

const (
	// OnionVersionUnknown indicates an unknown or invalid version.
	OnionVersionUnknown OnionVersion = 0
	// OnionVersionV2 indicates a v2 onion address (16 characters, deprecated).
	OnionVersionV2 OnionVersion = 2
	// OnionVersionV3 indicates a v3 onion address (56 characters, ed25519).
	OnionVersionV3 OnionVersion = 3
)

const (
	// OnionSuffix is the .onion TLD suffix.
	OnionSuffix = ".onion"
	// v2AddressLength is the length of a v2 onion address (without .onion).
	v2AddressLength = 16
	// v3AddressLength is the length of a v3 onion address (without .onion).
	v3AddressLength = 56
	// v3DecodedLength is pubkey (32) + checksum (2) + version (1).
	v3DecodedLength = 35
	// v3VersionByte is the trailing version byte of a v3 address.
	v3VersionByte = 0x03
)

// checksumPrefix is the constant prefix of the v3 checksum input.
var checksumPrefix = []byte(".onion checksum")

// String returns the string representation of the OnionVersion.
func (v OnionVersion) String() string {
	switch v {
	case OnionVersionV2:
		return "v2"
	case OnionVersionV3:
		return "v3"
	default:
		return "unknown"
	}
}

// OnionAddress is an immutable value object representing a Tor onion service hostname.
type OnionAddress struct {
	address string // Full address including .onion suffix
	version OnionVersion
}

// NewOnionAddress validates address and detects its version.
// The input may carry a scheme, a port, subdomains or omit the .onion suffix;
// those are normalized away. v3 addresses must carry a valid checksum.
func NewOnionAddress(address string) (OnionAddress, error) {
	normalized := normalizeOnion(address)
	if normalized == "" {
		return OnionAddress{}, ErrEmptyOnionAddress
	}

	base := strings.TrimSuffix(normalized, OnionSuffix)
	version := detectOnionVersion(base)
	switch version {
	case OnionVersionUnknown:
		return OnionAddress{}, ErrInvalidOnionAddress
	case OnionVersionV3:
		if !verifyV3Checksum(base) {
			return OnionAddress{}, ErrOnionChecksum
		}
	}

	return OnionAddress{address: normalized, version: version}, nil
}

// MustNewOnionAddress creates a new OnionAddress or panics if invalid.
// Use only for known-valid addresses in tests or initialization.
func MustNewOnionAddress(address string) OnionAddress {
	oa, err := NewOnionAddress(address)
	if err != nil {
		panic(err)
	}
	return oa
}

// IsOnionHost reports whether host (optionally with scheme and port) ends in .onion.
// It does not validate the address.
func IsOnionHost(host string) bool {
	return strings.HasSuffix(hostPart(host), OnionSuffix)
}

// hostPart lowercases s and strips scheme, path and port.
func hostPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}

// normalizeOnion lowercases, strips scheme, path and port, keeps only the
// last label before .onion and appends the suffix when missing.
func normalizeOnion(address string) string {
	s := hostPart(address)
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, OnionSuffix) {
		s += OnionSuffix
	}
	base := strings.TrimSuffix(s, OnionSuffix)
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}
	return base + OnionSuffix
}

// detectOnionVersion determines the onion address version based on length and characters.
func detectOnionVersion(base string) OnionVersion {
	if !isValidBase32(base) {
		return OnionVersionUnknown
	}
	switch len(base) {
	case v2AddressLength:
		return OnionVersionV2
	case v3AddressLength:
		return OnionVersionV3
	default:
		return OnionVersionUnknown
	}
}

// isValidBase32 checks if a string contains only lowercase base32 characters.
func isValidBase32(s string) bool {
	for _, c := range s {
		isLowerLetter := c >= 'a' && c <= 'z'
		isBase32Digit := c >= '2' && c <= '7'
		if !isLowerLetter && !isBase32Digit {
			return false
		}
	}
	return s != ""
}

// verifyV3Checksum checks SHA3-256(".onion checksum" || pubkey || version)[:2]
// against the embedded checksum.
func verifyV3Checksum(base string) bool {
	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(base))
	if err != nil || len(decoded) != v3DecodedLength {
		return false
	}

	pubkey := decoded[:32]
	checksum := decoded[32:34]
	version := decoded[34]
	if version != v3VersionByte {
		return false
	}

	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)
	sum := sha3.Sum256(data)

	return checksum[0] == sum[0] && checksum[1] == sum[1]
}

// String returns the full onion address including .onion suffix.
func (o OnionAddress) String() string {
	return o.address
}

// Base returns the onion address without the .onion suffix.
func (o OnionAddress) Base() string {
	return strings.TrimSuffix(o.address, OnionSuffix)
}

// Version returns the onion address version.
func (o OnionAddress) Version() OnionVersion {
	return o.version
}

// IsDeprecated returns true if this address uses a deprecated version (v2).
// V2 addresses were deprecated in October 2021.
func (o OnionAddress) IsDeprecated() bool {
	return o.version == OnionVersionV2
}

// IsZero returns true if this is a zero value (empty) OnionAddress.
func (o OnionAddress) IsZero() bool {
	return o.address == ""
}

// Redacted returns the address with the middle of the base replaced,
// e.g. "aaaaaa...m2dqd.onion". Short bases are fully masked.
func (o OnionAddress) Redacted() string {
	return RedactOnion(o.address)
}

// RedactOnion masks the middle of an onion hostname for log output.
func RedactOnion(address string) string {
	base := strings.TrimSuffix(address, OnionSuffix)
	if len(base) <= 12 {
		return "***" + OnionSuffix
	}
	return base[:6] + "..." + base[len(base)-5:] + OnionSuffix
}
