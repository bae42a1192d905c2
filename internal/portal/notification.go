package portal

import (
	"context"
	"errors"
	"fmt"

	"siar/internal/models"

	"gorm.io/gorm"
)

const notificationFeedSize = 20

// ListNotifications returns the caller's most recent notifications.
func (s *Service) ListNotifications(ctx context.Context, a Actor) ([]models.Notification, error) {
	out := []models.Notification{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", a.ID).
		Order("created_at desc").Order("id desc").
		Limit(notificationFeedSize).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, a Actor, id uint) (*models.Notification, error) {
	db := s.db.WithContext(ctx)
	var n models.Notification
	if err := db.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("notification")
		}
		return nil, fmt.Errorf("load notification %d: %w", id, err)
	}
	if err := authorize(a, Resource{Kind: KindNotification, OwnerID: n.UserID}, ActionMarkRead); err != nil {
		return nil, err
	}
	if !n.IsRead {
		if err := db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("mark notification %d read: %w", id, err)
		}
		n.IsRead = true
	}
	return &n, nil
}

// MarkAllNotificationsRead flips every unread notification of the caller and
// reports how many changed.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, a Actor) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", a.ID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
