package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"siar/internal/models"

	"gorm.io/gorm"
)

type EventInput struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ListEvents returns every calendar entry, custom and derived, ordered by date.
func (s *Service) ListEvents(ctx context.Context, a Actor) ([]models.Event, error) {
	if err := authorize(a, Resource{Kind: KindEvent}, ActionView); err != nil {
		return nil, err
	}
	events := []models.Event{}
	if err := s.db.WithContext(ctx).Preload("User").Order("date asc").Order("id asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Service) CreateEvent(ctx context.Context, a Actor, in EventInput) (*models.Event, error) {
	if err := authorize(a, Resource{Kind: KindEvent, EventType: models.EventCustom}, ActionCreate); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if strings.TrimSpace(in.Date) == "" || title == "" {
		return nil, invalid("date", "Tanggal dan judul wajib diisi")
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = "blue"
	}

	ev := models.Event{
		Date:        date,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Color:       color,
		EventType:   models.EventCustom,
		UserID:      a.ID,
		CreatedAt:   s.clock(),
	}
	if err := s.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.record(ctx, a, "event_create", "Created event: "+title, models.LogSuccess,
		map[string]any{"eventId": ev.ID})
	return &ev, nil
}

// DeleteEvent removes a custom event. Deadline events belong to their source record.
func (s *Service) DeleteEvent(ctx context.Context, a Actor, id uint) error {
	var ev models.Event
	if err := s.db.WithContext(ctx).First(&ev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("event")
		}
		return fmt.Errorf("load event %d: %w", id, err)
	}
	if err := authorize(a, Resource{Kind: KindEvent, OwnerID: ev.UserID, EventType: ev.EventType}, ActionDelete); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Event{}, id).Error; err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	s.record(ctx, a, "event_delete", "Deleted event: "+ev.Title, models.LogSuccess,
		map[string]any{"eventId": id})
	return nil
}
