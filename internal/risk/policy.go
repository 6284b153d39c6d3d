// Package risk holds the pure scoring model of the engine: per-source
// weights, confidence-scaled contributions with spike amplification, the
// dual-clock decay rule, ledger replay and score presentation.
//
// Nothing here touches storage. The services package loads state, asks this
// package what the next state is and persists the answer in one transaction.
package risk

import (
	"time"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Weights are the base points per source kind. SOS is never scaled.
type Weights struct {
	SMS           int
	Call          int
	SOS           int
	SafeDecrement int
}

// Policy bundles every tunable of the scoring model.
type Policy struct {
	Weights

	// Confidence is clamped into [MinConfidence, MaxConfidence] percent
	// before scaling the base weight.
	MinConfidence int
	MaxConfidence int

	// HourlyDecay points are removed per elapsed hour since the last update.
	HourlyDecay float64
	// ResetAfter clean time since the last scam forgives the subject fully.
	ResetAfter time.Duration
	// ReadMinInterval and SweepMinInterval gate how often erosion applies on
	// the read path and in the periodic sweep.
	ReadMinInterval  time.Duration
	SweepMinInterval time.Duration

	// A spike is SpikeThreshold or more ACTIVE entries already inside
	// SpikeWindow when a scam arrives. Spiking contributions are multiplied by
	// SpikeNum/SpikeDen.
	SpikeWindow    time.Duration
	SpikeThreshold int
	SpikeNum       int
	SpikeDen       int

	// HighRiskThreshold is the score at which a high_risk alert is raised.
	HighRiskThreshold int
}

// DefaultPolicy returns the production scoring constants.
func DefaultPolicy() Policy {
	return Policy{
		Weights:           Weights{SMS: 15, Call: 20, SOS: 25, SafeDecrement: 1},
		MinConfidence:     50,
		MaxConfidence:     100,
		HourlyDecay:       2.0,
		ResetAfter:        7 * 24 * time.Hour,
		ReadMinInterval:   30 * time.Minute,
		SweepMinInterval:  time.Hour,
		SpikeWindow:       10 * time.Minute,
		SpikeThreshold:    3,
		SpikeNum:          3,
		SpikeDen:          2,
		HighRiskThreshold: 75,
	}
}

// Clamp bounds score to [MinScore, MaxScore].
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// IsSpike reports whether an incoming scam is amplified, given how many
// ACTIVE entries the subject already has inside the spike window. The
// incoming event itself is not counted.
func (p Policy) IsSpike(priorInWindow int64) bool {
	return priorInWindow >= int64(p.SpikeThreshold)
}

// Contribution returns the integer points a scam event adds. Fractions are
// truncated. SOS always yields the fixed SOS weight.
func (p Policy) Contribution(kind domain.SourceKind, confidence int, spike bool) int {
	var base int
	switch kind {
	case domain.SourceSOS:
		return p.SOS
	case domain.SourceCall:
		base = p.Call
	default:
		base = p.SMS
	}

	c := confidence
	if c < p.MinConfidence {
		c = p.MinConfidence
	}
	if c > p.MaxConfidence {
		c = p.MaxConfidence
	}
	if spike && p.SpikeDen > 0 {
		return base * c * p.SpikeNum / (100 * p.SpikeDen)
	}
	return base * c / 100
}

// SafeEvent returns the score after a non-scam event.
func (p Policy) SafeEvent(score int) int {
	return Clamp(score - p.SafeDecrement)
}
