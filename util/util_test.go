package util

import "testing"

func TestEmailFingerprint(t *testing.T) {
	a := EmailFingerprint("Alice@Example.com")
	b := EmailFingerprint("  alice@example.com ")
	if a == "" || a != b {
		t.Errorf("expected stable case-insensitive fingerprint, got %q and %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
	if a == EmailFingerprint("bob@example.com") {
		t.Error("different addresses should not collide")
	}
	if EmailFingerprint("") != "" {
		t.Error("empty email should yield empty fingerprint")
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice@example.com", "a****@example.com"},
		{"a@b.co", "a@b.co"},
		{"nope", "****"},
		{"@b.co", "*****"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 7},
		{"512", 512},
		{"512KB", 512 << 10},
		{"10mb", 10 << 20},
		{"1 GB", 1 << 30},
		{"64B", 64},
		{"lots", 7},
		{"-1MB", 7},
	}
	for _, tc := range tests {
		if got := ParseSize(tc.in, 7); got != tc.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("sb_publishable_abcdef", 15); got != "sb_publishable_***" {
		t.Errorf("unexpected mask %q", got)
	}
	if got := MaskSecret("short", 8); got != "***" {
		t.Errorf("short secrets must be fully masked, got %q", got)
	}
}
