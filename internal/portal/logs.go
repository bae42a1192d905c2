package portal

import (
	"context"
	"fmt"
	"strings"

	"siar/internal/models"
)

const logPageSize = 100

// LogEntry is an audit row with the actor's name and email.
type LogEntry struct {
	models.Log
	User *LogActor `json:"user"`
}

type LogActor struct {
	NamaLengkap string `json:"nama_lengkap"`
	Email       string `json:"email"`
}

// ListLogs returns the most recent audit entries, optionally filtered by type.
func (s *Service) ListLogs(ctx context.Context, a Actor, typ string) ([]LogEntry, error) {
	if err := authorize(a, Resource{Kind: KindLog}, ActionView); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Preload("User").
		Order("timestamp desc").Order("id desc").
		Limit(logPageSize)
	if typ = strings.TrimSpace(typ); typ != "" {
		q = q.Where("type = ?", typ)
	}
	var rows []models.Log
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	out := make([]LogEntry, 0, len(rows))
	for _, l := range rows {
		e := LogEntry{Log: l}
		if l.User != nil {
			e.User = &LogActor{NamaLengkap: l.User.NamaLengkap, Email: l.User.Email}
		}
		e.Log.User = nil
		out = append(out, e)
	}
	return out, nil
}
