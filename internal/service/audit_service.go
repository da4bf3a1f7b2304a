package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"Hyeyum_Board/internal/model"
	"Hyeyum_Board/internal/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// AuditService 审计日志：写库失败只记日志，不影响主流程
type AuditService struct {
	logs    LogStore
	events  EventPublisher
	pending sync.WaitGroup
}

// NewAuditService accepts a nil publisher when no event stream is configured.
func NewAuditService(logs LogStore, events EventPublisher) *AuditService {
	return &AuditService{logs: logs, events: events}
}

func (s *AuditService) Record(ctx context.Context, action string, actor *model.User, details string) {
	entry := &model.LogEntry{
		Action:    action,
		Details:   details,
		Timestamp: model.Now(),
	}
	if actor != nil {
		entry.UserID = actor.ID
		entry.UserName = actor.Name
	}

	if err := s.logs.Append(ctx, entry); err != nil {
		log.WithError(err).WithField("action", action).Warn("Failed to append audit log")
	}

	if s.events != nil {
		s.publish(entry)
	}
}

func (s *AuditService) publish(entry *model.LogEntry) {
	payload := entry.ToMap()
	payload["id"] = entry.ID
	payload["event_id"] = uuid.NewString()
	value, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to encode audit event")
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.events.Publish(ctx, pkg.MakeKeyFromID(entry.UserID), value); err != nil {
			log.WithError(err).WithField("action", entry.Action).Warn("Failed to publish audit event")
		}
	}()
}

// Wait blocks until in-flight event publishes finish.
func (s *AuditService) Wait() {
	s.pending.Wait()
}
