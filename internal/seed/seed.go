// Package seed loads reference data, default accounts and the demo data set.
package seed

import (
	"context"
	"errors"
	"fmt"

	"siar/internal/auth"
	"siar/internal/models"
	"siar/internal/portal"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var Divisions = []models.Division{
	{Name: "Underwriting", Code: "UW"},
	{Name: "Claims", Code: "CL"},
	{Name: "Finance", Code: "FN"},
	{Name: "Human Resources", Code: "HR"},
	{Name: "Information Technology", Code: "IT"},
	{Name: "Marketing", Code: "MK"},
	{Name: "Operations", Code: "OP"},
	{Name: "Legal", Code: "LG"},
}

var Branches = []string{
	"Jakarta Pusat",
	"Jakarta Selatan",
	"Surabaya",
	"Bandung",
	"Medan",
	"Makassar",
	"Semarang",
	"Yogyakarta",
	"Denpasar",
	"Palembang",
}

const (
	AdminEmail      = "admin@ramayana.co.id"
	StaffEmail      = "staff@ramayana.co.id"
	DefaultPassword = "password123"
)

// ReferenceData upserts divisions (refreshing their codes) and branches.
func ReferenceData(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	for _, d := range Divisions {
		d := d
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"code"}),
		}).Create(&d).Error; err != nil {
			return fmt.Errorf("seed division %s: %w", d.Name, err)
		}
	}
	for _, name := range Branches {
		b := models.Branch{Name: name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&b).Error; err != nil {
			return fmt.Errorf("seed branch %s: %w", name, err)
		}
	}
	return nil
}

// Accounts are the IT admin and staff users created by DefaultAccounts.
type Accounts struct {
	Admin models.User
	Staff models.User
}

// DefaultAccounts creates the IT admin and a staff user when they do not exist.
func DefaultAccounts(ctx context.Context, db *gorm.DB, lg *zap.SugaredLogger) (*Accounts, error) {
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}
	admin, err := ensureUser(ctx, db, lg, models.User{
		NomorID:      "IT-001",
		NamaLengkap:  "Administrator SIAR",
		Email:        AdminEmail,
		PasswordHash: hash,
		Divisi:       "Information Technology",
		Cabang:       "Jakarta Pusat",
		Role:         models.RoleIT,
	})
	if err != nil {
		return nil, err
	}
	staff, err := ensureUser(ctx, db, lg, models.User{
		NomorID:      "UW-001",
		NamaLengkap:  "Staff Underwriting",
		Email:        StaffEmail,
		PasswordHash: hash,
		Divisi:       "Underwriting",
		Cabang:       "Jakarta Pusat",
		Role:         models.RoleNonIT,
	})
	if err != nil {
		return nil, err
	}
	return &Accounts{Admin: *admin, Staff: *staff}, nil
}

func ensureUser(ctx context.Context, db *gorm.DB, lg *zap.SugaredLogger, u models.User) (*models.User, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", u.Email, err)
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", u.Email, err)
	}
	lg.Infow("seeded default account", "email", u.Email, "role", u.Role)
	return &u, nil
}

// Demo populates sample records through the portal service so derived events,
// notifications and audit rows are produced as in normal use. It does nothing
// when maintenance issues already exist.
func Demo(ctx context.Context, db *gorm.DB, svc *portal.Service, acc *Accounts) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.MaintenanceIssue{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count maintenance: %w", err)
	}
	if n > 0 {
		return nil
	}
	staff := portal.Actor{ID: acc.Staff.ID, Role: acc.Staff.Role, IP: "127.0.0.1"}
	admin := portal.Actor{ID: acc.Admin.ID, Role: acc.Admin.Role, IP: "127.0.0.1"}

	issues := []struct {
		in     portal.MaintenanceInput
		status models.MaintenanceStatus
	}{
		{portal.MaintenanceInput{
			Category:    "Hardware",
			Problem:     "Printer tidak berfungsi",
			Description: "Printer di lantai 2 tidak dapat mencetak dokumen. Sudah dicoba restart tetapi masih bermasalah.",
			Deadline:    strPtr("2026-01-10"),
		}, ""},
		{portal.MaintenanceInput{
			Category:    "Software",
			Problem:     "Aplikasi sering crash",
			Description: "Aplikasi Excel sering tidak responding ketika membuka file besar",
			Deadline:    strPtr("2026-01-08"),
		}, models.MaintenanceInProgress},
		{portal.MaintenanceInput{
			Category:    "Network",
			Problem:     "WiFi lambat di ruang meeting",
			Description: "Koneksi WiFi sangat lambat di ruang meeting lantai 3",
		}, models.MaintenanceResolved},
	}
	for _, it := range issues {
		issue, err := svc.CreateMaintenance(ctx, staff, it.in)
		if err != nil {
			return fmt.Errorf("demo maintenance: %w", err)
		}
		if it.status != "" {
			st := it.status
			if _, err := svc.UpdateMaintenance(ctx, admin, issue.ID, portal.MaintenanceUpdate{Status: &st}); err != nil {
				return fmt.Errorf("demo maintenance status: %w", err)
			}
		}
	}

	projects := []struct {
		in     portal.ProjectInput
		status models.ProjectStatus
	}{
		{portal.ProjectInput{
			Title:       "Dokumen SOP Underwriting 2026",
			Description: "Update dokumen SOP untuk proses underwriting tahun 2026",
			FileOrLink:  strPtr("https://drive.google.com/file/sop-underwriting"),
			Deadline:    strPtr("2026-01-20"),
		}, ""},
		{portal.ProjectInput{
			Title:       "Template Laporan Klaim",
			Description: "Pembuatan template baru untuk laporan klaim berformat Excel",
			Deadline:    strPtr("2026-01-15"),
		}, models.ProjectInProgress},
	}
	for _, it := range projects {
		p, err := svc.CreateProject(ctx, staff, it.in)
		if err != nil {
			return fmt.Errorf("demo project: %w", err)
		}
		if it.status != "" {
			st := it.status
			if _, err := svc.UpdateProject(ctx, admin, p.ID, portal.ProjectUpdate{Status: &st}); err != nil {
				return fmt.Errorf("demo project status: %w", err)
			}
		}
	}

	events := []portal.EventInput{
		{Date: "2026-01-15", Title: "Training Sistem SIAR", Description: "Pelatihan penggunaan sistem SIAR untuk seluruh karyawan", Color: "blue"},
		{Date: "2026-01-20", Title: "Rapat Divisi IT", Description: "Rapat bulanan divisi IT untuk evaluasi sistem", Color: "green"},
		{Date: "2026-01-25", Title: "Deadline Laporan Q1", Description: "Batas waktu pengumpulan laporan kuartal pertama", Color: "red"},
	}
	for _, ev := range events {
		if _, err := svc.CreateEvent(ctx, admin, ev); err != nil {
			return fmt.Errorf("demo event: %w", err)
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
