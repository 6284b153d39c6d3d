// Package domain defines the persistence models for the risk engine: the
// per-subject risk ledger and its cached aggregate, alerts, SOS logs and the
// read-only health profile used for vulnerability flagging. These types are
// mapped with GORM and shared by the repository and service layers.
package domain

import "time"

// SourceKind identifies the channel a threat signal arrived through.
type SourceKind string

const (
	SourceSMS  SourceKind = "sms"
	SourceCall SourceKind = "call"
	SourceSOS  SourceKind = "sos"
)

// EntryStatus is the lifecycle state of a RiskEntry.
type EntryStatus string

const (
	// StatusActive entries are counted in the subject's score.
	StatusActive EntryStatus = "ACTIVE"
	// StatusResolved entries were dismissed by the subject.
	StatusResolved EntryStatus = "RESOLVED"
	// StatusDecayed entries expired after a clean period.
	StatusDecayed EntryStatus = "DECAYED"
)

// RiskEntry is one scored threat event in a subject's append-only ledger.
//
// Fields:
//   - ID: auto-increment primary key.
//   - SubjectID: the scored user (indexed).
//   - SourceKind: sms, call or sos.
//   - SourceID: content hash or synthetic id of the originating event.
//   - DedupKey: copy of SourceID while the entry is ACTIVE or RESOLVED, NULL once
//     DECAYED. The unique index on (subject_id, dedup_key) is what makes
//     (subject, source) unique among non-decayed entries; NULLs never collide.
//   - Contribution: integer points added to the score when the entry was created.
//   - Status: ACTIVE, RESOLVED or DECAYED.
//   - CreatedAt / ResolvedAt: lifecycle timestamps (UTC).
type RiskEntry struct {
	ID           uint        `json:"id"            gorm:"primaryKey;autoIncrement"`
	SubjectID    string      `json:"subject_id"    gorm:"type:varchar(64);not null;index:idx_entries_subject_status,priority:1;uniqueIndex:ux_entries_subject_dedup,priority:1"`
	SourceKind   SourceKind  `json:"source_kind"   gorm:"type:varchar(8);not null"`
	SourceID     string      `json:"source_id"     gorm:"type:varchar(128);not null;index"`
	DedupKey     *string     `json:"-"             gorm:"type:varchar(128);uniqueIndex:ux_entries_subject_dedup,priority:2"`
	Contribution int         `json:"contribution"  gorm:"not null"`
	Status       EntryStatus `json:"status"        gorm:"type:varchar(16);not null;index:idx_entries_subject_status,priority:2"`
	CreatedAt    time.Time   `json:"created_at"    gorm:"not null;index"`
	ResolvedAt   *time.Time  `json:"resolved_at,omitempty"`
}

// TableName returns the database table name for RiskEntry.
func (RiskEntry) TableName() string { return "risk_entries" }

// RiskState is the cached current score of one subject. It is an optimization
// over the ledger and can be rebuilt by replaying ACTIVE entries.
//
// LastScamAt drives the full 7-day reset. LastUpdatedAt is the last decay
// tick, not the last write: scoring and safe events leave it alone so the
// erosion pending since the tick is not lost. The one exception is a score
// rising from zero, which starts the clock at that write. It is maintained
// explicitly (not by GORM) so decay stays on the injected clock.
type RiskState struct {
	SubjectID     string     `json:"subject_id"    gorm:"type:varchar(64);primaryKey"`
	CurrentScore  int        `json:"current_score" gorm:"not null;default:0;index"`
	LastScamAt    *time.Time `json:"last_scam_at,omitempty"`
	LastUpdatedAt time.Time  `json:"last_updated_at" gorm:"not null"`
}

// TableName returns the database table name for RiskState.
func (RiskState) TableName() string { return "risk_states" }

// Alert types raised by the engine.
const (
	AlertHighRisk   = "high_risk"
	AlertVulnerable = "vulnerable_user"
	AlertSMSScam    = "sms_scam"
	AlertCallFraud  = "call_fraud"
	AlertSOS        = "sos"
)

// Alert severities.
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert is a persisted notification for a subject. The engine only records
// alerts; delivery is someone else's job.
type Alert struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	SubjectID string    `json:"subject_id" gorm:"type:varchar(64);not null;index:idx_alerts_subject_type,priority:1"`
	AlertType string    `json:"alert_type" gorm:"type:varchar(30);not null;index:idx_alerts_subject_type,priority:2"`
	Title     string    `json:"title"      gorm:"type:varchar(200);not null"`
	Details   string    `json:"details"    gorm:"type:text"`
	Severity  string    `json:"severity"   gorm:"type:varchar(20);not null;default:'medium'"`
	IsRead    bool      `json:"is_read"    gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

// TableName returns the database table name for Alert.
func (Alert) TableName() string { return "alerts" }

// HealthProfile carries the vulnerability inputs for a subject. The engine
// only reads it.
type HealthProfile struct {
	SubjectID         string `json:"subject_id"         gorm:"type:varchar(64);primaryKey"`
	Age               *int   `json:"age,omitempty"`
	MedicalConditions string `json:"medical_conditions" gorm:"type:text"`
}

// TableName returns the database table name for HealthProfile.
func (HealthProfile) TableName() string { return "health_profiles" }

// SosLog records one emergency trigger.
type SosLog struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	SubjectID string    `json:"subject_id" gorm:"type:varchar(64);not null;index"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Message   string    `json:"message"    gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// TableName returns the database table name for SosLog.
func (SosLog) TableName() string { return "sos_logs" }
