package phonehash

import (
	"errors"
	"strings"
	"testing"
)

func TestHash_SameNumberDifferentSpellings(t *testing.T) {
	h := New("s3cret", "in")

	a, err := h.Hash("+91 98765 43210")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("098765 43210")
	if err != nil {
		t.Fatalf("Hash national: %v", err)
	}
	if a != b {
		t.Fatalf("expected equal digests, got %s vs %s", a, b)
	}
	if !Valid(a) {
		t.Fatalf("digest %q should be valid", a)
	}
	if strings.Contains(a, "9876543210") {
		t.Fatalf("digest leaks the number")
	}
}

func TestHash_SaltChangesDigest(t *testing.T) {
	a, _ := New("one", "IN").Hash("+919876543210")
	b, _ := New("two", "IN").Hash("+919876543210")
	if a == "" || a == b {
		t.Fatalf("salt must change the digest: %q vs %q", a, b)
	}
}

func TestHash_InvalidInput(t *testing.T) {
	h := New("s", "IN")
	for _, in := range []string{"", "abc", "12", "+1 000"} {
		if _, err := h.Hash(in); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("Hash(%q) err = %v; want ErrInvalidNumber", in, err)
		}
	}
}

func TestNormalize_E164(t *testing.T) {
	got, err := New("", "IN").Normalize("98765 43210")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "+919876543210" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestValid(t *testing.T) {
	if Valid(strings.Repeat("A", 64)) || Valid("abc") || Valid(strings.Repeat("0", 63)) {
		t.Fatalf("Valid accepted a malformed digest")
	}
	if !Valid(strings.Repeat("0f", 32)) {
		t.Fatalf("Valid rejected a well-formed digest")
	}
}
