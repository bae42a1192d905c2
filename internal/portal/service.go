package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"siar/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileStore persists uploaded bytes and returns the public path they are served from.
// Save reports storage.ErrTooLarge when the content exceeds the store's limit.
type FileStore interface {
	Save(ctx context.Context, dir, name string, r io.Reader) (publicPath string, size int64, err error)
	Remove(publicPath string) error
}

// Service implements the portal's resource operations on top of gorm.
type Service struct {
	db    *gorm.DB
	lg    *zap.SugaredLogger
	files FileStore
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *gorm.DB, lg *zap.SugaredLogger, files FileStore, opts ...Option) *Service {
	s := &Service{db: db, lg: lg, files: files, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) clock() time.Time { return s.now().UTC() }

// record appends an audit log entry. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, a Actor, typ, desc string, status models.LogStatus, meta map[string]any) {
	ip := a.IP
	if ip == "" {
		ip = "system"
	}
	entry := models.Log{
		UserID:      a.userID(),
		Type:        typ,
		Description: desc,
		Status:      status,
		IP:          ip,
		Timestamp:   s.clock(),
	}
	if len(meta) > 0 {
		entry.Metadata = models.NewJSONB(meta)
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.lg.Warnw("audit log write failed", "type", typ, "user_id", a.ID, "error", err)
	}
}

// notify creates a notification for userID. Failures are logged, never returned.
func (s *Service) notify(ctx context.Context, userID uint, typ models.NotificationType, title, msg string, ref uint) {
	n := models.Notification{
		UserID:      userID,
		Type:        typ,
		Title:       title,
		Message:     msg,
		ReferenceID: &ref,
		CreatedAt:   s.clock(),
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		s.lg.Warnw("notification write failed", "type", typ, "user_id", userID, "error", err)
	}
}

func (s *Service) removeFiles(files []models.FileUpload) {
	if s.files == nil {
		return
	}
	for _, f := range files {
		if err := s.files.Remove(f.FilePath); err != nil {
			s.lg.Warnw("file removal failed", "path", f.FilePath, "error", err)
		}
	}
}

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, invalid(field, fmt.Sprintf("%s tidak valid", field))
}

// parseOptionalDate treats nil and blank input as no date.
func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalString(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// FlexID is an id that decodes from either a JSON number or a numeric string.
type FlexID uint

func (f *FlexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n uint
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("id: expected number or string")
	}
	if str == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return fmt.Errorf("id: invalid value %q", str)
	}
	*f = FlexID(v)
	return nil
}

// NullableString distinguishes an absent JSON key from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
