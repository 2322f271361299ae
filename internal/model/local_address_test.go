package model

import "testing"

func TestIsValidLocalAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"192.168.1.5:8443", true},
		{"192.168.1.5", true},
		{"bitcoind.embassy.local", true},
		{"embassy.local:443", true},
		{"", false},
		{"https://embassy.local", false},
		{"embassy.local/apps", false},
		{"embassy.local:99999", false},
		{"bad host:80", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := IsValidLocalAddress(tt.in); got != tt.want {
				t.Errorf("IsValidLocalAddress(%q) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsMDNSHost(t *testing.T) {
	t.Parallel()

	if !IsMDNSHost("embassy.local:8443") {
		t.Error("expected embassy.local:8443 to be an mDNS host")
	}
	if IsMDNSHost("192.168.1.5") {
		t.Error("expected raw IP to not be an mDNS host")
	}
}
