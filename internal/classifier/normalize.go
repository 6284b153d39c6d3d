package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC, case folding and whitespace collapsing. Full-width
// or stylised look-alike characters fold to their plain forms so they hit the
// same keywords and hash to the same fingerprint.
func Normalize(text string) string {
	// Casers keep state; one per call keeps Normalize safe for concurrent use.
	folded := cases.Fold().String(norm.NFKC.String(text))
	return strings.Join(strings.Fields(folded), " ")
}

// Fingerprint returns the SHA-256 hex digest of the normalised text. Two
// messages that differ only in case, spacing or Unicode presentation share a
// fingerprint.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}
