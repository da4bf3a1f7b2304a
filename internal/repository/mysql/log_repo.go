package mysql

import (
	"context"

	"Hyeyum_Board/internal/model"
)

type LogRepository struct {
	h *Handle
}

func NewLogRepository(h *Handle) *LogRepository {
	return &LogRepository{h: h}
}

func (r *LogRepository) Append(ctx context.Context, entry *model.LogEntry) error {
	db, err := r.h.DB(ctx)
	if err != nil {
		return err
	}
	return translate(db.Create(entry).Error)
}

func (r *LogRepository) Recent(ctx context.Context, limit int) ([]model.LogEntry, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.LogEntry
	err = db.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&list).Error
	return list, translate(err)
}

func (r *LogRepository) RecentUnordered(ctx context.Context, limit int) ([]model.LogEntry, error) {
	db, err := r.h.DB(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.LogEntry
	err = db.Limit(limit).Find(&list).Error
	return list, translate(err)
}
