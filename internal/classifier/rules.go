package classifier

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Keyword families. Order matters: reasons list hits in this order.
var (
	urgencyWords = []string{
		"urgent", "immediately", "act now", "expire", "suspended",
		"last chance", "hurry", "deadline", "limited time", "warning",
		"final notice", "right away", "don't delay", "asap",
	}
	financialWords = []string{
		"bank", "account", "transfer", "upi", "otp", "pin", "credit card",
		"debit card", "loan", "emi", "payment", "refund", "kyc", "aadhar",
		"pan card", "blocked", "verify", "transaction", "wallet", "paytm",
		"phonepe", "gpay", "prize", "lottery", "reward", "cashback",
		"rupees", "lakh", "crore", "won", "winner",
	}
	impersonationWords = []string{
		"rbi", "reserve bank", "sbi", "government", "police", "court",
		"income tax", "customs", "cbi", "ministry", "official",
		"department", "authority", "officer", "inspector", "magistrate",
	}
	threatWords = []string{
		"arrest", "jail", "legal action", "case filed", "warrant",
		"fine", "penalty", "blacklisted", "terminate", "seize",
		"freeze", "suspend", "cancel",
	}
)

var linkPattern = regexp.MustCompile(
	`(?i)https?://[^\s]+|www\.[^\s]+|bit\.ly/[^\s]+|t\.co/[^\s]+|` +
		`[a-zA-Z0-9.-]+\.(?:tk|ml|ga|cf|gq|xyz|top|buzz|click|link)/[^\s]*`,
)

// family is one capped keyword bucket.
type family struct {
	words  []string
	per    int
	cap    int
	reason string
}

var (
	urgency       = family{urgencyWords, 12, 25, "Urgency language detected"}
	financial     = family{financialWords, 15, 30, "Financial keywords found"}
	impersonation = family{impersonationWords, 18, 25, "Possible impersonation"}
	threat        = family{threatWords, 15, 20, "Threatening language"}
)

const (
	linkPoints       = 20
	maxListedHits    = 3
	maxListedLinks   = 2
	ruleScoreCeiling = 100
)

// ruleResult is the output of the deterministic rule layer.
type ruleResult struct {
	Score         int
	Urgency       []string
	Financial     []string
	Impersonation []string
	Threat        []string
	Links         []string
	Reasons       []string
}

// scanRules runs the keyword families and the link detector over text.
// normalized must be the Normalize form of raw.
func scanRules(raw, normalized string) ruleResult {
	tokens := tokenSet(normalized)

	var r ruleResult
	r.Urgency = urgency.hits(normalized, tokens)
	r.Financial = financial.hits(normalized, tokens)
	r.Impersonation = impersonation.hits(normalized, tokens)
	r.Threat = threat.hits(normalized, tokens)
	r.Links = linkPattern.FindAllString(raw, -1)

	for _, f := range []struct {
		fam  family
		hits []string
	}{
		{urgency, r.Urgency},
		{financial, r.Financial},
		{impersonation, r.Impersonation},
		{threat, r.Threat},
	} {
		if len(f.hits) == 0 {
			continue
		}
		r.Score += min(len(f.hits)*f.fam.per, f.fam.cap)
		r.Reasons = append(r.Reasons, fmt.Sprintf("%s: %s", f.fam.reason, strings.Join(firstN(f.hits, maxListedHits), ", ")))
	}
	if len(r.Links) > 0 {
		r.Score += linkPoints
		r.Reasons = append(r.Reasons, fmt.Sprintf("Suspicious link(s) detected: %s", strings.Join(firstN(r.Links, maxListedLinks), ", ")))
	}
	r.Score = min(r.Score, ruleScoreCeiling)
	return r
}

// category picks the verdict category by precedence.
func (r ruleResult) category() string {
	switch {
	case len(r.Financial) > 0 && len(r.Impersonation) > 0:
		return CategoryFinancialImpersonation
	case len(r.Financial) > 0:
		return CategoryFinancialScam
	case len(r.Impersonation) > 0:
		return CategoryImpersonation
	case len(r.Threat) > 0:
		return CategoryThreatScam
	case len(r.Links) > 0 && len(r.Urgency) > 0:
		return CategoryPhishing
	case len(r.Links) > 0:
		return CategorySuspiciousLink
	case len(r.Urgency) > 0:
		return CategorySocialEngineering
	default:
		return CategorySafe
	}
}

// hits returns the distinct family keywords present in text. Single words
// must match a whole token; phrases match as substrings.
func (f family) hits(normalized string, tokens map[string]struct{}) []string {
	var out []string
	for _, w := range f.words {
		if strings.Contains(w, " ") {
			if strings.Contains(normalized, w) {
				out = append(out, w)
			}
			continue
		}
		if _, ok := tokens[w]; ok {
			out = append(out, w)
		}
	}
	return out
}

func tokenSet(normalized string) map[string]struct{} {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.Trim(f, "'")] = struct{}{}
	}
	return set
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
