package domain

import "time"

// ProcessedEvent records the verdict of an inbound message that has already
// been scored, keyed by (subject_id, content_hash). The hash covers the kind
// as well as the normalised text, so the same words sent as an SMS and spoken
// in a call are two events. A retried SMS or call transcript finds this row
// and gets the original verdict back without a second ledger write. Rows are
// created once and never updated.
type ProcessedEvent struct {
	ID          uint       `json:"id"           gorm:"primaryKey;autoIncrement"`
	SubjectID   string     `json:"subject_id"   gorm:"type:varchar(64);not null;uniqueIndex:ux_processed_subject_hash,priority:1"`
	ContentHash string     `json:"content_hash" gorm:"type:varchar(64);not null;uniqueIndex:ux_processed_subject_hash,priority:2"`
	Kind        SourceKind `json:"kind"         gorm:"type:varchar(8);not null;index"`
	Message     string     `json:"message"      gorm:"type:text"`
	IsScam      bool       `json:"is_scam"      gorm:"not null;default:false"`
	Confidence  int        `json:"confidence"   gorm:"not null;default:0"`
	Category    string     `json:"category"     gorm:"type:varchar(50)"`
	Explanation string     `json:"explanation"  gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"   gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (ProcessedEvent) TableName() string { return "processed_events" }
