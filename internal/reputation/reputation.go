// Package reputation is the pure phone reputation model: feature extraction
// from call patterns and community reports, a rule-based probability
// estimator standing in for a trained model, a log-scaled community score and
// the 60/40 hybrid blend, plus the levels, actions and warnings shown to
// callers.
package reputation

import (
	"fmt"
	"math"
	"strings"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// Report categories with a dedicated feature flag.
const (
	CategoryLoanScam  = "loan_scam"
	CategoryBankFraud = "bank_fraud"
	CategoryOTPScam   = "otp_scam"
)

// Risk levels.
const (
	LevelSafe       = "SAFE"
	LevelUnknown    = "UNKNOWN"
	LevelSuspicious = "SUSPICIOUS"
	LevelHigh       = "HIGH"
)

// Recommended actions.
const (
	ActionBlock          = "block"
	ActionWarnAndSilence = "warn_and_silence"
	ActionWarnOnly       = "warn_only"
	ActionAllow          = "allow"
)

// TimeNight marks calls placed at night.
const TimeNight = "night"

// CallSignal is optional metadata about the call being checked right now.
type CallSignal struct {
	DurationSeconds *int   `json:"call_duration,omitempty"`
	TimeOfDay       string `json:"time_of_day,omitempty"`
	IsVoIP          bool   `json:"is_voip,omitempty"`
	IsWeekend       bool   `json:"is_weekend,omitempty"`
}

// Features is the model input vector.
type Features struct {
	CallFrequency24h float64
	AvgCallDuration  float64
	ShortCallRatio   float64
	IsVoIP           bool

	ReportCount      int
	UniqueReporters  int
	AvgReporterTrust float64

	NightCall   bool
	WeekendCall bool

	LoanCategory bool
	BankCategory bool
	OTPCategory  bool
}

// Extract builds the feature vector. meta and sig may be nil. VoIP and night
// flags come from the live signal when present, else from the stored call
// pattern.
func Extract(meta *domain.CallMetadata, reports []domain.UserReport, sig *CallSignal) Features {
	var f Features
	if meta != nil {
		f.CallFrequency24h = float64(meta.CallFrequency)
		f.AvgCallDuration = meta.AvgDuration
		f.ShortCallRatio = meta.ShortCallRatio
		f.IsVoIP = meta.VoIPIndicator
		f.NightCall = meta.TimePattern == TimeNight
	}
	if sig != nil {
		f.IsVoIP = f.IsVoIP || sig.IsVoIP
		if sig.TimeOfDay != "" {
			f.NightCall = strings.EqualFold(sig.TimeOfDay, TimeNight)
		}
		f.WeekendCall = sig.IsWeekend
	}

	f.ReportCount = len(reports)
	reporters := make(map[string]struct{}, len(reports))
	var trust float64
	for _, r := range reports {
		reporters[r.ReporterID] = struct{}{}
		trust += r.TrustScore
		switch r.Category {
		case CategoryLoanScam:
			f.LoanCategory = true
		case CategoryBankFraud:
			f.BankCategory = true
		case CategoryOTPScam:
			f.OTPCategory = true
		}
	}
	f.UniqueReporters = len(reporters)
	f.AvgReporterTrust = trust / float64(max(len(reports), 1))
	return f
}

// Probability accumulates independent weighted evidence into [0,1].
func Probability(f Features) float64 {
	var p float64
	switch {
	case f.CallFrequency24h > 5:
		p += 0.3
	case f.CallFrequency24h > 2:
		p += 0.15
	}
	if f.ShortCallRatio > 0.7 {
		p += 0.25
	}
	if f.IsVoIP {
		p += 0.2
	}
	if f.NightCall {
		p += 0.15
	}
	switch {
	case f.ReportCount > 10:
		p += 0.4
	case f.ReportCount > 3:
		p += 0.2
	}
	if f.LoanCategory || f.BankCategory {
		p += 0.2
	}
	return math.Min(1, p)
}

// CommunityScore grows logarithmically with report volume, reporter
// diversity and trust, capped at 100.
func CommunityScore(f Features) int {
	x := float64(f.ReportCount) * float64(f.UniqueReporters) * f.AvgReporterTrust
	return min(int(math.Log1p(x)*15), 100)
}

// HybridScore blends 60% model probability with 40% community score.
func HybridScore(f Features) (score int, probability float64) {
	probability = Probability(f)
	v := math.Round(0.6*probability*100 + 0.4*float64(CommunityScore(f)))
	return min(max(int(v), 0), 100), probability
}

// Level maps a reputation score to its label.
func Level(score int) string {
	switch {
	case score < 30:
		return LevelSafe
	case score < 50:
		return LevelUnknown
	case score < 70:
		return LevelSuspicious
	default:
		return LevelHigh
	}
}

// Action recommends what the client should do with the call.
func Action(score int) string {
	switch {
	case score >= 80:
		return ActionBlock
	case score >= 60:
		return ActionWarnAndSilence
	case score >= 40:
		return ActionWarnOnly
	default:
		return ActionAllow
	}
}

// Warning renders the message shown alongside a score.
func Warning(score int, category *string, reportCount int) string {
	cat := "unknown"
	if category != nil && *category != "" {
		cat = *category
	}
	cat = strings.ReplaceAll(cat, "_", " ")

	switch Level(score) {
	case LevelHigh:
		return fmt.Sprintf("HIGH RISK: %d users reported this as %s. Do not answer.", reportCount, cat)
	case LevelSuspicious:
		return fmt.Sprintf("Suspicious: %d reports for %s. Be very careful.", reportCount, cat)
	case LevelUnknown:
		return fmt.Sprintf("Unknown number. %d user reports. Proceed with caution.", reportCount)
	default:
		return "This number appears safe. No known reports."
	}
}

// PluralityCategory returns the most reported category. Ties go to the
// category whose first report came earliest; reports must be in insertion
// order. Empty input yields "".
func PluralityCategory(reports []domain.UserReport) string {
	counts := make(map[string]int, len(reports))
	var order []string
	for _, r := range reports {
		if _, seen := counts[r.Category]; !seen {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	}
	best, bestN := "", 0
	for _, c := range order {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}
