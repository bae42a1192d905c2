package portal

import (
	"context"
	"fmt"
	"time"

	"siar/internal/models"
)

type MaintenanceCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Rejected   int64 `json:"rejected"`
}

type ProjectCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Rejected   int64 `json:"rejected"`
}

type Stats struct {
	Maintenance   MaintenanceCounts `json:"maintenance"`
	Projects      ProjectCounts     `json:"projects"`
	Events        int64             `json:"events"`
	Logs          int64             `json:"logs"`
	Users         int64             `json:"users"`
	Notifications int64             `json:"notifications"`
}

type statusCount struct {
	Status string
	N      int64
}

// DashboardStats aggregates counters for the caller. Record counts are scoped to
// the caller unless IT; user and log counts are only filled in for IT.
func (s *Service) DashboardStats(ctx context.Context, a Actor) (*Stats, error) {
	db := s.db.WithContext(ctx)
	now := s.clock()
	var st Stats

	mc, err := s.countByStatus(ctx, a, &models.MaintenanceIssue{})
	if err != nil {
		return nil, fmt.Errorf("maintenance stats: %w", err)
	}
	st.Maintenance = MaintenanceCounts{
		Pending:    mc[string(models.MaintenancePending)],
		InProgress: mc[string(models.MaintenanceInProgress)],
		Resolved:   mc[string(models.MaintenanceResolved)],
		Rejected:   mc[string(models.MaintenanceRejected)],
	}
	st.Maintenance.Total = sum(mc)

	pc, err := s.countByStatus(ctx, a, &models.ProjectItem{})
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	st.Projects = ProjectCounts{
		Pending:    pc[string(models.ProjectPending)],
		InProgress: pc[string(models.ProjectInProgress)],
		Completed:  pc[string(models.ProjectCompleted)],
		Rejected:   pc[string(models.ProjectRejected)],
	}
	st.Projects.Total = sum(pc)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := db.Model(&models.Event{}).
		Where("date >= ? AND date < ?", monthStart, monthStart.AddDate(0, 1, 0)).
		Count(&st.Events).Error; err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}

	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", a.ID, false).
		Count(&st.Notifications).Error; err != nil {
		return nil, fmt.Errorf("notification stats: %w", err)
	}

	if a.IsIT() {
		if err := db.Model(&models.Log{}).
			Where("timestamp >= ?", now.AddDate(0, 0, -7)).
			Count(&st.Logs).Error; err != nil {
			return nil, fmt.Errorf("log stats: %w", err)
		}
		if err := db.Model(&models.User{}).Count(&st.Users).Error; err != nil {
			return nil, fmt.Errorf("user stats: %w", err)
		}
	}
	return &st, nil
}

func (s *Service) countByStatus(ctx context.Context, a Actor, model any) (map[string]int64, error) {
	q := s.db.WithContext(ctx).Model(model).Select("status, count(*) as n").Group("status")
	if !a.IsIT() {
		q = q.Where("user_id = ?", a.ID)
	}
	var rows []statusCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func sum(m map[string]int64) int64 {
	var t int64
	for _, n := range m {
		t += n
	}
	return t
}
