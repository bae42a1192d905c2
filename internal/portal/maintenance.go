package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"siar/internal/models"

	"gorm.io/gorm"
)

type MaintenanceInput struct {
	Category      string  `json:"kategori"`
	OtherCategory *string `json:"otherKategori"`
	Problem       string  `json:"jenis_masalah"`
	Description   string  `json:"deskripsi"`
	Deadline      *string `json:"deadline"`
}

// MaintenanceUpdate carries a partial update. Nil fields are left unchanged; an
// empty deadline clears it.
type MaintenanceUpdate struct {
	Category      *string                   `json:"kategori"`
	OtherCategory *string                   `json:"otherKategori"`
	Problem       *string                   `json:"jenis_masalah"`
	Description   *string                   `json:"deskripsi"`
	Deadline      *string                   `json:"deadline"`
	Status        *models.MaintenanceStatus `json:"status"`
}

type MaintenanceDetail struct {
	models.MaintenanceIssue
	Attachments []models.FileUpload `json:"attachments"`
}

func (s *Service) ListMaintenance(ctx context.Context, a Actor) ([]models.MaintenanceIssue, error) {
	q := s.db.WithContext(ctx).Preload("User").Order("created_at desc").Order("id desc")
	if !a.IsIT() {
		q = q.Where("user_id = ?", a.ID)
	}
	issues := []models.MaintenanceIssue{}
	if err := q.Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("list maintenance: %w", err)
	}
	return issues, nil
}

func (s *Service) GetMaintenance(ctx context.Context, a Actor, id uint) (*MaintenanceDetail, error) {
	issue, err := s.loadMaintenance(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := authorize(a, Resource{Kind: KindMaintenance, OwnerID: issue.UserID}, ActionView); err != nil {
		return nil, err
	}
	files, err := s.listFiles(ctx, MaintenanceRef(id))
	if err != nil {
		return nil, err
	}
	return &MaintenanceDetail{MaintenanceIssue: *issue, Attachments: files}, nil
}

func (s *Service) CreateMaintenance(ctx context.Context, a Actor, in MaintenanceInput) (*models.MaintenanceIssue, error) {
	category := strings.TrimSpace(in.Category)
	problem := strings.TrimSpace(in.Problem)
	desc := strings.TrimSpace(in.Description)
	if category == "" || problem == "" || desc == "" {
		return nil, invalid("kategori", "Kategori, jenis masalah, dan deskripsi wajib diisi")
	}
	deadline, err := parseOptionalDate("deadline", in.Deadline)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	issue := models.MaintenanceIssue{
		Category:    category,
		Problem:     problem,
		Description: desc,
		Status:      models.MaintenancePending,
		Deadline:    deadline,
		UserID:      a.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if category == models.CategoryOther {
		issue.OtherCategory = optionalString(in.OtherCategory)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&issue).Error; err != nil {
			return err
		}
		if deadline != nil {
			return syncDeadline(tx, maintenanceDeadline(&issue), deadline, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create maintenance: %w", err)
	}

	s.record(ctx, a, "CREATE", "Created maintenance issue: "+problem, models.LogSuccess,
		map[string]any{"maintenanceId": issue.ID})
	return s.loadMaintenance(ctx, issue.ID, true)
}

func (s *Service) UpdateMaintenance(ctx context.Context, a Actor, id uint, in MaintenanceUpdate) (*models.MaintenanceIssue, error) {
	issue, err := s.loadMaintenance(ctx, id, false)
	if err != nil {
		return nil, err
	}
	res := Resource{Kind: KindMaintenance, OwnerID: issue.UserID}
	canEdit := CanMutate(a, res, ActionEdit)
	canStatus := CanMutate(a, res, ActionSetStatus)
	if !canEdit && !canStatus {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	deadlineChanged := false
	titleChanged := false
	deadline := issue.Deadline

	if canEdit {
		if in.Category != nil {
			c := strings.TrimSpace(*in.Category)
			if c == "" {
				return nil, invalid("kategori", "Kategori wajib diisi")
			}
			updates["kategori"] = c
			if c == models.CategoryOther {
				updates["other_kategori"] = optionalString(in.OtherCategory)
			} else {
				updates["other_kategori"] = nil
			}
		} else if in.OtherCategory != nil && issue.Category == models.CategoryOther {
			updates["other_kategori"] = optionalString(in.OtherCategory)
		}
		if in.Problem != nil {
			p := strings.TrimSpace(*in.Problem)
			if p == "" {
				return nil, invalid("jenis_masalah", "Jenis masalah wajib diisi")
			}
			updates["jenis_masalah"] = p
			titleChanged = p != issue.Problem
			issue.Problem = p
		}
		if in.Description != nil {
			d := strings.TrimSpace(*in.Description)
			if d == "" {
				return nil, invalid("deskripsi", "Deskripsi wajib diisi")
			}
			updates["deskripsi"] = d
		}
		if in.Deadline != nil {
			deadline, err = parseOptionalDate("deadline", in.Deadline)
			if err != nil {
				return nil, err
			}
			updates["deadline"] = deadline
			deadlineChanged = true
		}
	}

	statusChanged := false
	var newStatus models.MaintenanceStatus
	if in.Status != nil && canStatus {
		newStatus = *in.Status
		if !newStatus.Valid() {
			return nil, invalid("status", fmt.Sprintf("Status %q tidak valid", newStatus))
		}
		updates["status"] = newStatus
		statusChanged = true
	}
	if !canEdit && !statusChanged {
		return nil, invalid("status", "Status wajib diisi")
	}

	now := s.clock()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = now
			if err := tx.Model(&models.MaintenanceIssue{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if deadlineChanged || (titleChanged && deadline != nil) {
			return syncDeadline(tx, maintenanceDeadline(issue), deadline, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update maintenance: %w", err)
	}

	adminUpdate := !canEdit
	if statusChanged && issue.UserID != a.ID {
		s.notify(ctx, issue.UserID, models.NotifyMaintenanceStatus, "Status Maintenance Diperbarui",
			fmt.Sprintf("Laporan \"%s\" Anda sekarang berstatus: %s", issue.Problem, newStatus), issue.ID)
	}
	if adminUpdate {
		s.record(ctx, a, "maintenance_status_update",
			fmt.Sprintf("Admin updated maintenance %q status to %q", issue.Problem, newStatus), models.LogSuccess,
			map[string]any{"maintenanceId": issue.ID, "status": newStatus})
	} else {
		s.record(ctx, a, "maintenance_edit",
			fmt.Sprintf("User edited maintenance %q", issue.Problem), models.LogSuccess,
			map[string]any{"maintenanceId": issue.ID})
	}
	return s.loadMaintenance(ctx, id, true)
}

func (s *Service) DeleteMaintenance(ctx context.Context, a Actor, id uint) error {
	issue, err := s.loadMaintenance(ctx, id, false)
	if err != nil {
		return err
	}
	if err := authorize(a, Resource{Kind: KindMaintenance, OwnerID: issue.UserID}, ActionDelete); err != nil {
		return err
	}

	var removed []models.FileUpload
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDeadlineEvents(tx, models.EventDeadlineMaintenance, id); err != nil {
			return err
		}
		files, err := cascadeFiles(tx, id, models.EntityMaintenance)
		if err != nil {
			return err
		}
		removed = files
		return tx.Delete(&models.MaintenanceIssue{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete maintenance: %w", err)
	}
	s.removeFiles(removed)

	actor := actorLabel(a, issue.UserID)
	s.record(ctx, a, "maintenance_delete",
		fmt.Sprintf("%s deleted maintenance %q", actor.title, issue.Problem), models.LogSuccess,
		map[string]any{"maintenanceId": id, "actor": actor.kind})
	return nil
}

func (s *Service) loadMaintenance(ctx context.Context, id uint, withUser bool) (*models.MaintenanceIssue, error) {
	q := s.db.WithContext(ctx)
	if withUser {
		q = q.Preload("User")
	}
	var issue models.MaintenanceIssue
	if err := q.First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("maintenance issue")
		}
		return nil, fmt.Errorf("load maintenance %d: %w", id, err)
	}
	return &issue, nil
}

type actorKind struct {
	kind  string
	title string
}

// actorLabel distinguishes an IT override from the owner acting on their own record.
func actorLabel(a Actor, ownerID uint) actorKind {
	if a.IsIT() && a.ID != ownerID {
		return actorKind{kind: "admin", title: "Admin"}
	}
	return actorKind{kind: "owner", title: "User"}
}
