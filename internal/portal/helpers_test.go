package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"siar/internal/database"
	"siar/internal/models"
	"siar/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "secret-pass"

// memFiles is an in-memory FileStore.
type memFiles struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	limit   int64
}

func newMemFiles() *memFiles { return &memFiles{saved: map[string][]byte{}} }

func (m *memFiles) Save(_ context.Context, dir, name string, r io.Reader) (string, int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	if m.limit > 0 && int64(len(b)) > m.limit {
		return "", 0, fmt.Errorf("%w: %d bytes", storage.ErrTooLarge, m.limit)
	}
	p := "/uploads/" + dir + "/" + name
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[p] = b
	return p, int64(len(b)), nil
}

func (m *memFiles) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, p)
	m.removed = append(m.removed, p)
	return nil
}

// tickClock advances one second per reading.
type tickClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	db    *gorm.DB
	svc   *Service
	files *memFiles
	clock *tickClock
	it    models.User
	staff models.User
	other models.User
}

func (f *fixture) actor(u models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, IP: "10.0.0.1"}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	clock := &tickClock{now: time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)}
	files := newMemFiles()
	f := &fixture{
		db:    db,
		files: files,
		clock: clock,
		svc:   New(db, zap.NewNop().Sugar(), files, WithClock(clock.Now)),
	}
	f.it = createUser(t, db, "IT-001", "Admin IT", "admin@example.com", models.RoleIT)
	f.staff = createUser(t, db, "UW-001", "Staff Underwriting", "staff@example.com", models.RoleNonIT)
	f.other = createUser(t, db, "CL-001", "Staff Claims", "claims@example.com", models.RoleNonIT)
	return f
}

func createUser(t *testing.T, db *gorm.DB, nomor, name, email string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		NomorID:      nomor,
		NamaLengkap:  name,
		Email:        email,
		PasswordHash: string(hash),
		Divisi:       "Underwriting",
		Cabang:       "Jakarta Pusat",
		Role:         role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func (f *fixture) createIssue(t *testing.T, owner models.User, problem string, deadline *string) *models.MaintenanceIssue {
	t.Helper()
	issue, err := f.svc.CreateMaintenance(context.Background(), f.actor(owner), MaintenanceInput{
		Category:    "Hardware",
		Problem:     problem,
		Description: "desc " + problem,
		Deadline:    deadline,
	})
	require.NoError(t, err)
	return issue
}

func (f *fixture) createProject(t *testing.T, owner models.User, title string, deadline *string) *models.ProjectItem {
	t.Helper()
	p, err := f.svc.CreateProject(context.Background(), f.actor(owner), ProjectInput{
		Title:       title,
		Description: "desc " + title,
		Deadline:    deadline,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) upload(t *testing.T, by models.User, ref EntityRef, name string) *models.FileUpload {
	t.Helper()
	row, err := f.svc.UploadFile(context.Background(), f.actor(by), ref, UploadInput{
		Name:        name,
		ContentType: "application/pdf",
		Body:        bytes.NewBufferString("content of " + name),
	})
	require.NoError(t, err)
	return row
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("bad day %q", s))
	}
	return t
}
