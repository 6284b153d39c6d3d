package domain

import "time"

// PhoneReputation is the aggregate reputation of one phone number. The number
// itself is never stored; PhoneHash is a salted one-way digest (64 hex chars).
type PhoneReputation struct {
	ID              uint       `json:"id"                 gorm:"primaryKey;autoIncrement"`
	PhoneHash       string     `json:"phone_hash"         gorm:"type:varchar(64);not null;uniqueIndex"`
	RiskScore       int        `json:"risk_score"         gorm:"not null;default:0;index"`
	Category        *string    `json:"category,omitempty" gorm:"type:varchar(50)"`
	ReportCount     int        `json:"report_count"       gorm:"not null;default:0"`
	FirstReportedAt *time.Time `json:"first_reported_at,omitempty"`
	LastUpdatedAt   time.Time  `json:"last_updated_at"    gorm:"not null"`
	ModelConfidence float64    `json:"model_confidence"   gorm:"not null;default:0.5"`
}

// TableName implements the GORM tabler interface.
func (PhoneReputation) TableName() string { return "phone_reputations" }

// UserReport is one reporter's scam report against a phone hash. A reporter
// may file at most one report per phone hash.
type UserReport struct {
	ID         uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	ReporterID string    `json:"reporter_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_reports_reporter_phone,priority:1;index:idx_reports_reporter_created,priority:1"`
	PhoneHash  string    `json:"phone_hash"  gorm:"type:varchar(64);not null;uniqueIndex:ux_reports_reporter_phone,priority:2;index"`
	Category   string    `json:"category"    gorm:"type:varchar(50);not null"`
	Notes      string    `json:"notes"       gorm:"type:text"`
	TrustScore float64   `json:"trust_score" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"created_at"  gorm:"not null;index:idx_reports_reporter_created,priority:2"`
}

// TableName implements the GORM tabler interface.
func (UserReport) TableName() string { return "user_reports" }

// CallMetadata summarises the observed call pattern of a phone hash.
//
// CallFrequency counts calls inside the rolling window that starts at
// WindowStart. AvgDuration and ShortCallRatio are running values over
// TotalCalls observations.
type CallMetadata struct {
	ID             uint      `json:"id"               gorm:"primaryKey;autoIncrement"`
	PhoneHash      string    `json:"phone_hash"       gorm:"type:varchar(64);not null;uniqueIndex"`
	CallFrequency  int       `json:"call_frequency"   gorm:"not null;default:0"`
	WindowStart    time.Time `json:"window_start"     gorm:"not null"`
	TotalCalls     int       `json:"total_calls"      gorm:"not null;default:0"`
	ShortCalls     int       `json:"short_calls"      gorm:"not null;default:0"`
	AvgDuration    float64   `json:"avg_duration"     gorm:"not null;default:0"`
	ShortCallRatio float64   `json:"short_call_ratio" gorm:"not null;default:0"`
	VoIPIndicator  bool      `json:"voip_indicator"   gorm:"not null;default:false"`
	TimePattern    string    `json:"time_pattern"     gorm:"type:varchar(20)"`
	CreatedAt      time.Time `json:"created_at"       gorm:"not null"`
	LastCallAt     time.Time `json:"last_call_at"     gorm:"not null"`
}

// TableName implements the GORM tabler interface.
func (CallMetadata) TableName() string { return "call_metadata" }
