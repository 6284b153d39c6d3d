package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// Display levels.
const (
	LevelSafe     = "Safe"
	LevelLow      = "Low"
	LevelModerate = "Moderate"
	LevelHigh     = "High"
)

// ElderlyAge is the age above which a subject is treated as elderly.
const ElderlyAge = 65

// DisplayBoost is added to the score of elderly subjects on display.
const DisplayBoost = 5

// Profile is the read-only vulnerability input of a subject.
type Profile struct {
	Age               *int
	MedicalConditions string
}

// ProfileOf converts a stored health profile; nil yields the zero Profile.
func ProfileOf(hp *domain.HealthProfile) Profile {
	if hp == nil {
		return Profile{}
	}
	return Profile{Age: hp.Age, MedicalConditions: hp.MedicalConditions}
}

// Elderly reports age > ElderlyAge.
func (p Profile) Elderly() bool { return p.Age != nil && *p.Age > ElderlyAge }

// HasConditions reports a non-blank medical-conditions note.
func (p Profile) HasConditions() bool { return strings.TrimSpace(p.MedicalConditions) != "" }

// Vulnerable is the alerting predicate: elderly or with medical conditions.
func (p Profile) Vulnerable() bool { return p.Elderly() || p.HasConditions() }

// DisplayScore returns the score shown to the subject. Elderly subjects get
// DisplayBoost even at a stored score of zero. The stored score is never
// changed by this.
func DisplayScore(score int, p Profile) int {
	score = Clamp(score)
	if p.Elderly() {
		return Clamp(score + DisplayBoost)
	}
	return score
}

// Level maps a display score to its label.
func Level(score int) string {
	switch {
	case score < 10:
		return LevelSafe
	case score < 40:
		return LevelLow
	case score < 70:
		return LevelModerate
	default:
		return LevelHigh
	}
}

// Details renders the human-readable summary of a score.
func Details(display int, activeThreats int64, vulnerable bool) string {
	if display == 0 {
		return "You are safe. No active threats detected."
	}
	var b strings.Builder
	if activeThreats > 0 {
		fmt.Fprintf(&b, "%d active threat(s) contributing to risk.", activeThreats)
	} else {
		b.WriteString("Risk score is elevated due to past activity.")
	}
	if vulnerable {
		b.WriteString(" Vulnerable user: enhanced monitoring active.")
	}
	return b.String()
}

// VulnerableAlert drafts the alert raised when a vulnerable subject receives
// a scam.
func VulnerableAlert(subject string, kind domain.SourceKind, p Profile, now time.Time) domain.Alert {
	var flags []string
	if p.Elderly() {
		flags = append(flags, "elderly")
	}
	if p.HasConditions() {
		flags = append(flags, "has medical conditions")
	}
	return domain.Alert{
		SubjectID: subject,
		AlertType: domain.AlertVulnerable,
		Title:     "High-risk scam detected for vulnerable user",
		Details:   fmt.Sprintf("Scam detected via %s. User is flagged as vulnerable (%s).", kind, strings.Join(flags, " + ")),
		Severity:  domain.SeverityHigh,
		CreatedAt: now,
	}
}

// HighRiskAlert drafts the critical alert for a score at or above the
// high-risk threshold.
func HighRiskAlert(subject string, score int, now time.Time) domain.Alert {
	return domain.Alert{
		SubjectID: subject,
		AlertType: domain.AlertHighRisk,
		Title:     "Risk Score Critical",
		Details:   fmt.Sprintf("User risk score has reached %d/100. Immediate attention required.", score),
		Severity:  domain.SeverityCritical,
		CreatedAt: now,
	}
}
