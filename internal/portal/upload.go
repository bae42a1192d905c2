package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"siar/internal/models"
	"siar/internal/storage"

	"gorm.io/gorm"
)

// EntityRef identifies the record a file is attached to.
type EntityRef struct {
	Type models.EntityType
	ID   uint
}

func MaintenanceRef(id uint) EntityRef   { return EntityRef{Type: models.EntityMaintenance, ID: id} }
func ProjectRef(id uint) EntityRef       { return EntityRef{Type: models.EntityProject, ID: id} }
func ProjectResultRef(id uint) EntityRef { return EntityRef{Type: models.EntityProjectResult, ID: id} }

// ParseEntityRef validates the entityType/entityId pair sent by clients.
func ParseEntityRef(typ, id string) (EntityRef, error) {
	typ, id = strings.TrimSpace(typ), strings.TrimSpace(id)
	if typ == "" || id == "" {
		return EntityRef{}, invalid("entityType", "Entity type and ID are required")
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return EntityRef{}, invalid("entityId", fmt.Sprintf("Entity ID %q tidak valid", id))
	}
	switch t := models.EntityType(typ); t {
	case models.EntityMaintenance:
		return MaintenanceRef(uint(n)), nil
	case models.EntityProject:
		return ProjectRef(uint(n)), nil
	case models.EntityProjectResult:
		return ProjectResultRef(uint(n)), nil
	}
	return EntityRef{}, invalid("entityType", fmt.Sprintf("Entity type %q tidak valid", typ))
}

func (r EntityRef) resourceKind() ResourceKind {
	switch r.Type {
	case models.EntityMaintenance:
		return KindMaintenance
	case models.EntityProject:
		return KindProject
	}
	return KindProjectResult
}

// owner returns the owning user of the referenced record.
func (s *Service) owner(ctx context.Context, r EntityRef) (uint, error) {
	db := s.db.WithContext(ctx)
	var (
		owner uint
		err   error
	)
	switch r.Type {
	case models.EntityMaintenance:
		var m models.MaintenanceIssue
		err = db.Select("id", "user_id").First(&m, r.ID).Error
		owner = m.UserID
	default:
		var p models.ProjectItem
		err = db.Select("id", "user_id").First(&p, r.ID).Error
		owner = p.UserID
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, notFound(string(r.Type))
		}
		return 0, fmt.Errorf("load %s %d: %w", r.Type, r.ID, err)
	}
	return owner, nil
}

type UploadInput struct {
	Name        string
	ContentType string
	Body        io.Reader
}

var (
	unsafeBase = regexp.MustCompile(`[^a-zA-Z0-9]`)
	unsafeExt  = regexp.MustCompile(`[^a-zA-Z0-9.]`)
)

// storedName builds "<entityId>_<unixMillis>_<base><ext>" with a sanitized base.
func storedName(entityID uint, millis int64, original string) string {
	name := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%d_%d_%s%s", entityID, millis, unsafeBase.ReplaceAllString(base, "_"), unsafeExt.ReplaceAllString(ext, ""))
}

// UploadFile stores the bytes under the entity type's directory and records the metadata.
func (s *Service) UploadFile(ctx context.Context, a Actor, ref EntityRef, in UploadInput) (*models.FileUpload, error) {
	if in.Body == nil || strings.TrimSpace(in.Name) == "" {
		return nil, invalid("file", "No file provided")
	}
	ownerID, err := s.owner(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := authorize(a, Resource{Kind: ref.resourceKind(), OwnerID: ownerID}, ActionAttach); err != nil {
		return nil, err
	}

	now := s.clock()
	name := storedName(ref.ID, now.UnixMilli(), in.Name)
	publicPath, size, err := s.files.Save(ctx, string(ref.Type), name, in.Body)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("store upload: %w", err)
	}

	row := models.FileUpload{
		EntityType:   ref.Type,
		EntityID:     ref.ID,
		FileName:     filepath.Base(in.Name),
		FileType:     in.ContentType,
		FileSize:     size,
		FilePath:     publicPath,
		UploadedByID: a.ID,
		CreatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if rmErr := s.files.Remove(publicPath); rmErr != nil {
			s.lg.Warnw("orphan upload removal failed", "path", publicPath, "error", rmErr)
		}
		return nil, fmt.Errorf("record upload: %w", err)
	}
	s.record(ctx, a, "file_upload", fmt.Sprintf("Uploaded %s for %s #%d", row.FileName, ref.Type, ref.ID), models.LogSuccess,
		map[string]any{"fileId": row.ID, "entityType": ref.Type, "entityId": ref.ID})
	return &row, nil
}

// ListFiles returns the files attached to ref, newest first.
func (s *Service) ListFiles(ctx context.Context, a Actor, ref EntityRef) ([]models.FileUpload, error) {
	ownerID, err := s.owner(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := authorize(a, Resource{Kind: ref.resourceKind(), OwnerID: ownerID}, ActionView); err != nil {
		return nil, err
	}
	return s.listFiles(ctx, ref)
}

func (s *Service) listFiles(ctx context.Context, ref EntityRef) ([]models.FileUpload, error) {
	files := []models.FileUpload{}
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).
		Order("created_at desc").Order("id desc").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list files for %s %d: %w", ref.Type, ref.ID, err)
	}
	return files, nil
}
