package portal

import (
	"errors"
	"time"

	"siar/internal/models"

	"gorm.io/gorm"
)

// deadlineEvent describes the calendar entry derived from a record's deadline.
type deadlineEvent struct {
	typ     models.EventType
	refID   uint
	ownerID uint
	label   string
	title   string
}

func maintenanceDeadline(issue *models.MaintenanceIssue) deadlineEvent {
	return deadlineEvent{
		typ:     models.EventDeadlineMaintenance,
		refID:   issue.ID,
		ownerID: issue.UserID,
		label:   "maintenance",
		title:   issue.Problem,
	}
}

func projectDeadline(p *models.ProjectItem) deadlineEvent {
	return deadlineEvent{
		typ:     models.EventDeadlineProject,
		refID:   p.ID,
		ownerID: p.UserID,
		label:   "project",
		title:   p.Title,
	}
}

func (d deadlineEvent) color() string {
	if d.typ == models.EventDeadlineProject {
		return "purple"
	}
	return "orange"
}

func (d deadlineEvent) event(date time.Time) models.Event {
	ref := d.refID
	return models.Event{
		Date:        date,
		Title:       "Deadline: " + d.title,
		Description: "Deadline " + d.label + ": " + d.title,
		Color:       d.color(),
		EventType:   d.typ,
		ReferenceID: &ref,
		UserID:      d.ownerID,
	}
}

// syncDeadline makes the derived event match deadline: created, moved, or removed.
func syncDeadline(tx *gorm.DB, d deadlineEvent, deadline *time.Time, now time.Time) error {
	if deadline == nil {
		return deleteDeadlineEvents(tx, d.typ, d.refID)
	}
	var existing models.Event
	err := tx.Where("event_type = ? AND reference_id = ?", d.typ, d.refID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ev := d.event(*deadline)
		ev.CreatedAt = now
		return tx.Create(&ev).Error
	}
	if err != nil {
		return err
	}
	ev := d.event(*deadline)
	return tx.Model(&models.Event{}).
		Where("event_type = ? AND reference_id = ?", d.typ, d.refID).
		Updates(map[string]any{"date": ev.Date, "title": ev.Title, "description": ev.Description}).Error
}

func deleteDeadlineEvents(tx *gorm.DB, typ models.EventType, refID uint) error {
	return tx.Where("event_type = ? AND reference_id = ?", typ, refID).Delete(&models.Event{}).Error
}

// cascadeFiles deletes the file rows attached to refID under any of types and returns them.
func cascadeFiles(tx *gorm.DB, refID uint, types ...models.EntityType) ([]models.FileUpload, error) {
	var files []models.FileUpload
	if err := tx.Where("entity_type IN ? AND entity_id = ?", types, refID).Find(&files).Error; err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if err := tx.Where("entity_type IN ? AND entity_id = ?", types, refID).Delete(&models.FileUpload{}).Error; err != nil {
		return nil, err
	}
	return files, nil
}
