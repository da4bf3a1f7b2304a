package model

import (
	"time"

	"gorm.io/gorm"
)

// Audit actions.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionSignup         = "signup"
	ActionPostCreated    = "post_created"
	ActionPostUpdated    = "post_updated"
	ActionPostDeleted    = "post_deleted"
	ActionAdminBootstrap = "admin_bootstrap"
)

// LogEntry is append-only. UserID is a weak reference; the user may not exist.
type LogEntry struct {
	ID        uint64    `gorm:"primaryKey"`
	Action    string    `gorm:"size:32;not null;index"`
	UserID    uint64    `gorm:"not null;index"`
	UserName  string    `gorm:"size:64"`
	Details   string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (LogEntry) TableName() string {
	return "logs"
}

func (l *LogEntry) AfterFind(tx *gorm.DB) error {
	l.Timestamp = l.Timestamp.In(KST)
	return nil
}

func LogEntryFromMap(id uint64, m map[string]any) (*LogEntry, error) {
	l := &LogEntry{ID: id}
	var err error
	if l.Action, err = stringField(m, "action"); err != nil {
		return nil, err
	}
	if l.UserID, err = uintField(m, "user_id"); err != nil {
		return nil, err
	}
	if l.UserName, err = stringField(m, "user_name"); err != nil {
		return nil, err
	}
	if l.Details, err = stringField(m, "details"); err != nil {
		return nil, err
	}
	if l.Timestamp, err = timeField(m, "timestamp"); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *LogEntry) ToMap() map[string]any {
	return map[string]any{
		"action":    l.Action,
		"user_id":   l.UserID,
		"user_name": l.UserName,
		"details":   l.Details,
		"timestamp": l.Timestamp.In(KST),
	}
}
