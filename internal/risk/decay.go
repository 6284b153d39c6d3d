package risk

import (
	"time"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// Snapshot is the part of a RiskState the decay rule reads.
type Snapshot struct {
	Score         int
	LastScamAt    *time.Time
	LastUpdatedAt time.Time
}

// SnapshotOf copies the decay inputs out of st.
func SnapshotOf(st *domain.RiskState) Snapshot {
	return Snapshot{Score: st.CurrentScore, LastScamAt: st.LastScamAt, LastUpdatedAt: st.LastUpdatedAt}
}

// DecayResult is the state after applying the decay rule.
//
// Reset means the clean period elapsed: the score is 0 and every ACTIVE entry
// of the subject must become DECAYED. Changed means the score or the update
// clock moved and the state should be written back.
type DecayResult struct {
	Score         int
	LastUpdatedAt time.Time
	Reset         bool
	Changed       bool
}

// Apply writes r back onto st.
func (r DecayResult) Apply(st *domain.RiskState) {
	st.CurrentScore = r.Score
	st.LastUpdatedAt = r.LastUpdatedAt
}

// Decay applies the dual-clock rule at now.
//
// The reset clock runs from the last scam: once ResetAfter has elapsed the
// subject is forgiven, exactly once per scam. The erosion clock runs from the
// last update: when at least minInterval has passed, HourlyDecay points per
// elapsed hour are removed and the clock advances. A zero score has nothing
// pending and is left untouched.
func (p Policy) Decay(s Snapshot, now time.Time, minInterval time.Duration) DecayResult {
	out := DecayResult{Score: Clamp(s.Score), LastUpdatedAt: s.LastUpdatedAt}

	if p.resetDue(s, now) {
		out.Score = 0
		out.LastUpdatedAt = now
		out.Reset = true
		out.Changed = true
		return out
	}

	if out.Score <= 0 {
		return out
	}

	if s.LastScamAt == nil {
		out.Score = 0
		out.LastUpdatedAt = now
		out.Changed = true
		return out
	}

	elapsed := now.Sub(s.LastUpdatedAt)
	if elapsed < minInterval || elapsed <= 0 {
		return out
	}
	out.Score = erode(out.Score, elapsed, p.HourlyDecay)
	out.LastUpdatedAt = now
	out.Changed = true
	return out
}

// resetDue is true when the clean period since the last scam has elapsed and
// no tick has been taken since it did. A reset stamps the clock at now, which
// is past the deadline, so the same scam never resets twice.
func (p Policy) resetDue(s Snapshot, now time.Time) bool {
	if s.LastScamAt == nil {
		return false
	}
	deadline := s.LastScamAt.Add(p.ResetAfter)
	return !now.Before(deadline) && s.LastUpdatedAt.Before(deadline)
}
