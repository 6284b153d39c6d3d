// Package phonehash turns raw phone numbers into the salted one-way digests
// the reputation store is keyed by. Numbers are parsed and validated with
// libphonenumber, formatted as E.164 so every spelling of a number hashes
// alike, and digested with HMAC-SHA256.
package phonehash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidNumber is returned for input libphonenumber rejects.
var ErrInvalidNumber = errors.New("invalid phone number")

var hashRE = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Hasher digests phone numbers with a secret salt. Region is the default
// region (ISO 3166-1 alpha-2) for numbers without a country prefix.
type Hasher struct {
	Salt   string
	Region string
}

// New returns a Hasher.
func New(salt, region string) *Hasher {
	return &Hasher{Salt: salt, Region: strings.ToUpper(strings.TrimSpace(region))}
}

// Normalize parses raw and returns its E.164 form.
func (h *Hasher) Normalize(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), h.Region)
	if err != nil {
		return "", ErrInvalidNumber
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Hash normalises raw and returns the lowercase hex HMAC-SHA256 digest.
func (h *Hasher) Hash(raw string) (string, error) {
	e164, err := h.Normalize(raw)
	if err != nil {
		return "", err
	}
	return h.digest(e164), nil
}

func (h *Hasher) digest(e164 string) string {
	mac := hmac.New(sha256.New, []byte(h.Salt))
	mac.Write([]byte(e164))
	return hex.EncodeToString(mac.Sum(nil))
}

// Valid reports whether s looks like a digest produced by Hash.
func Valid(s string) bool {
	return hashRE.MatchString(s)
}
