package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"siar/internal/models"

	"gorm.io/gorm"
)

type ProjectInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	FileOrLink  *string `json:"fileOrLink"`
	Deadline    *string `json:"deadline"`
}

// ProjectUpdate carries a partial update. The result fields are only read when
// Status is COMPLETED.
type ProjectUpdate struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	FileOrLink  *string               `json:"fileOrLink"`
	Deadline    *string               `json:"deadline"`
	Status      *models.ProjectStatus `json:"status"`
	ResultType  *models.ResultType    `json:"resultType"`
	ResultValue *string               `json:"resultValue"`
	ResultName  *string               `json:"resultName"`
}

type ProjectDetail struct {
	models.ProjectItem
	Attachments []models.FileUpload `json:"attachments"`
	Results     []models.FileUpload `json:"results"`
}

func (s *Service) ListProjects(ctx context.Context, a Actor) ([]models.ProjectItem, error) {
	q := s.db.WithContext(ctx).Preload("User").Order("created_at desc").Order("id desc")
	if !a.IsIT() {
		q = q.Where("user_id = ?", a.ID)
	}
	items := []models.ProjectItem{}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return items, nil
}

func (s *Service) GetProject(ctx context.Context, a Actor, id uint) (*ProjectDetail, error) {
	p, err := s.loadProject(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := authorize(a, Resource{Kind: KindProject, OwnerID: p.UserID}, ActionView); err != nil {
		return nil, err
	}
	attachments, err := s.listFiles(ctx, ProjectRef(id))
	if err != nil {
		return nil, err
	}
	results, err := s.listFiles(ctx, ProjectResultRef(id))
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{ProjectItem: *p, Attachments: attachments, Results: results}, nil
}

func (s *Service) CreateProject(ctx context.Context, a Actor, in ProjectInput) (*models.ProjectItem, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" || desc == "" {
		return nil, invalid("title", "Judul dan deskripsi wajib diisi")
	}
	deadline, err := parseOptionalDate("deadline", in.Deadline)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	p := models.ProjectItem{
		Title:       title,
		Description: desc,
		FileOrLink:  optionalString(in.FileOrLink),
		Status:      models.ProjectPending,
		Deadline:    deadline,
		UserID:      a.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if deadline != nil {
			return syncDeadline(tx, projectDeadline(&p), deadline, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.record(ctx, a, "CREATE", "Created project request: "+title, models.LogSuccess,
		map[string]any{"projectId": p.ID})
	return s.loadProject(ctx, p.ID, true)
}

func (s *Service) UpdateProject(ctx context.Context, a Actor, id uint, in ProjectUpdate) (*models.ProjectItem, error) {
	p, err := s.loadProject(ctx, id, false)
	if err != nil {
		return nil, err
	}
	res := Resource{Kind: KindProject, OwnerID: p.UserID}
	canEdit := CanMutate(a, res, ActionEdit)
	canStatus := CanMutate(a, res, ActionSetStatus)
	if !canEdit && !canStatus {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	deadlineChanged := false
	titleChanged := false
	deadline := p.Deadline

	if canEdit {
		if in.Title != nil {
			t := strings.TrimSpace(*in.Title)
			if t == "" {
				return nil, invalid("title", "Judul wajib diisi")
			}
			updates["title"] = t
			titleChanged = t != p.Title
			p.Title = t
		}
		if in.Description != nil {
			d := strings.TrimSpace(*in.Description)
			if d == "" {
				return nil, invalid("description", "Deskripsi wajib diisi")
			}
			updates["description"] = d
		}
		if in.FileOrLink != nil {
			updates["file_or_link"] = optionalString(in.FileOrLink)
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
	var newStatus models.ProjectStatus
	if in.Status != nil && canStatus {
		newStatus = *in.Status
		if !newStatus.Valid() {
			return nil, invalid("status", fmt.Sprintf("Status %q tidak valid", newStatus))
		}
		updates["status"] = newStatus
		statusChanged = true
		if newStatus == models.ProjectCompleted {
			if err := completionResult(in, updates); err != nil {
				return nil, err
			}
		}
	}
	if !canEdit && !statusChanged {
		return nil, invalid("status", "Status wajib diisi")
	}

	now := s.clock()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			updates["updated_at"] = now
			if err := tx.Model(&models.ProjectItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if deadlineChanged || (titleChanged && deadline != nil) {
			return syncDeadline(tx, projectDeadline(p), deadline, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	if statusChanged && p.UserID != a.ID {
		s.notify(ctx, p.UserID, models.NotifyProjectStatus, "Status Project Diperbarui",
			fmt.Sprintf("Request project \"%s\" Anda sekarang berstatus: %s", p.Title, newStatus), p.ID)
	}
	if !canEdit {
		s.record(ctx, a, "project_status_update",
			fmt.Sprintf("Admin updated project %q status to %q", p.Title, newStatus), models.LogSuccess,
			map[string]any{"projectId": p.ID, "status": newStatus})
	} else {
		s.record(ctx, a, "project_edit",
			fmt.Sprintf("User edited project %q", p.Title), models.LogSuccess,
			map[string]any{"projectId": p.ID})
	}
	return s.loadProject(ctx, id, true)
}

// completionResult validates the result supplied with a COMPLETED transition and
// adds it to updates, replacing any earlier result.
func completionResult(in ProjectUpdate, updates map[string]any) error {
	if in.ResultType == nil || (*in.ResultType != models.ResultLink && *in.ResultType != models.ResultFile) {
		return invalid("resultType", "Tipe hasil (LINK atau FILE) wajib diisi untuk status COMPLETED")
	}
	value := optionalString(in.ResultValue)
	if value == nil {
		return invalid("resultValue", "Hasil project wajib diisi untuk status COMPLETED")
	}
	updates["result_type"] = *in.ResultType
	updates["result_value"] = *value
	updates["result_name"] = optionalString(in.ResultName)
	return nil
}

func (s *Service) DeleteProject(ctx context.Context, a Actor, id uint) error {
	p, err := s.loadProject(ctx, id, false)
	if err != nil {
		return err
	}
	if err := authorize(a, Resource{Kind: KindProject, OwnerID: p.UserID}, ActionDelete); err != nil {
		return err
	}

	var removed []models.FileUpload
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDeadlineEvents(tx, models.EventDeadlineProject, id); err != nil {
			return err
		}
		files, err := cascadeFiles(tx, id, models.EntityProject, models.EntityProjectResult)
		if err != nil {
			return err
		}
		removed = files
		return tx.Delete(&models.ProjectItem{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.removeFiles(removed)

	actor := actorLabel(a, p.UserID)
	s.record(ctx, a, "project_delete",
		fmt.Sprintf("%s deleted project %q", actor.title, p.Title), models.LogSuccess,
		map[string]any{"projectId": id, "actor": actor.kind})
	return nil
}

func (s *Service) loadProject(ctx context.Context, id uint, withUser bool) (*models.ProjectItem, error) {
	q := s.db.WithContext(ctx)
	if withUser {
		q = q.Preload("User")
	}
	var p models.ProjectItem
	if err := q.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("project")
		}
		return nil, fmt.Errorf("load project %d: %w", id, err)
	}
	return &p, nil
}
