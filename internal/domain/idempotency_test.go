package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestProcessedEvent_UniquePerSubject(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&ProcessedEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if !db.Migrator().HasIndex(&ProcessedEvent{}, "ux_processed_subject_hash") {
		t.Fatalf("expected unique index ux_processed_subject_hash")
	}

	now := time.Now().UTC()
	mk := func(subject string) *ProcessedEvent {
		return &ProcessedEvent{SubjectID: subject, ContentHash: "abc", Kind: SourceSMS, CreatedAt: now}
	}
	if err := db.Create(mk("u1")).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Create(mk("u1")).Error; err == nil {
		t.Fatalf("expected duplicate (subject, hash) to fail")
	}
	if err := db.Create(mk("u2")).Error; err != nil {
		t.Fatalf("insert for other subject: %v", err)
	}
}

func TestUserReport_OnePerReporterAndPhone(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&PhoneReputation{}, &UserReport{}, &CallMetadata{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	now := time.Now().UTC()
	r := &UserReport{ReporterID: "u1", PhoneHash: "p1", Category: "loan_scam", TrustScore: 1, CreatedAt: now}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	dup := &UserReport{ReporterID: "u1", PhoneHash: "p1", Category: "bank_fraud", TrustScore: 1, CreatedAt: now}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected duplicate report to fail")
	}

	rep := &PhoneReputation{PhoneHash: "p1", LastUpdatedAt: now, ModelConfidence: 0.5}
	if err := db.Create(rep).Error; err != nil {
		t.Fatalf("insert reputation: %v", err)
	}
	if err := db.Create(&PhoneReputation{PhoneHash: "p1", LastUpdatedAt: now}).Error; err == nil {
		t.Fatalf("expected unique phone_hash on reputations")
	}
}
