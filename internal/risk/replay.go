package risk

import (
	"time"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// ReplayResult is a RiskState rebuilt from the ledger.
type ReplayResult struct {
	Score      int
	LastScamAt *time.Time
	Entries    int
}

// Replay rebuilds a score from ACTIVE entries in creation order. Between two
// entries, and from the last one to now, erosion is applied at HourlyDecay
// points per hour; a gap of ResetAfter or more forgives everything before it.
// The score is clamped after every step.
func (p Policy) Replay(entries []domain.RiskEntry, now time.Time) ReplayResult {
	var (
		score    int
		lastScam *time.Time
	)
	for i := range entries {
		e := entries[i]
		if e.Status != domain.StatusActive {
			continue
		}
		at := e.CreatedAt
		if lastScam != nil {
			score = p.advance(score, *lastScam, at)
		}
		score = Clamp(score + e.Contribution)
		lastScam = &at
	}

	out := ReplayResult{Score: score, LastScamAt: lastScam, Entries: len(entries)}
	if lastScam != nil {
		out.Score = p.advance(score, *lastScam, now)
	}
	return out
}

func (p Policy) advance(score int, from, to time.Time) int {
	gap := to.Sub(from)
	if gap <= 0 {
		return score
	}
	if gap >= p.ResetAfter {
		return 0
	}
	return erode(score, gap, p.HourlyDecay)
}
