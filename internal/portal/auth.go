package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"siar/internal/auth"
	"siar/internal/models"

	"gorm.io/gorm"
)

type RegisterInput struct {
	NomorID     string `json:"nomor_id"`
	NamaLengkap string `json:"nama_lengkap"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Divisi      string `json:"divisi"`
	Cabang      string `json:"cabang"`
}

func (in RegisterInput) validate() error {
	fields := []struct{ name, value string }{
		{"nomor_id", in.NomorID},
		{"nama_lengkap", in.NamaLengkap},
		{"email", in.Email},
		{"password", in.Password},
		{"divisi", in.Divisi},
		{"cabang", in.Cabang},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, fmt.Sprintf("Field %s wajib diisi", f.name))
		}
	}
	return nil
}

// Register creates a NON_IT account. Any role sent by the client is ignored.
func (s *Service) Register(ctx context.Context, in RegisterInput, ip string) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	nomorID := strings.TrimSpace(in.NomorID)
	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return nil, &ConflictError{Message: "Email sudah terdaftar"}
	}
	if err := db.Model(&models.User{}).Where("nomor_id = ?", nomorID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check nomor_id: %w", err)
	}
	if n > 0 {
		return nil, &ConflictError{Message: "Nomor ID sudah terdaftar"}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.clock()
	u := models.User{
		NomorID:      nomorID,
		NamaLengkap:  strings.TrimSpace(in.NamaLengkap),
		Email:        email,
		PasswordHash: hash,
		Divisi:       strings.TrimSpace(in.Divisi),
		Cabang:       strings.TrimSpace(in.Cabang),
		Role:         models.RoleNonIT,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "Email sudah terdaftar"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.record(ctx, Actor{ID: u.ID, Role: u.Role, IP: ip}, "REGISTER",
		fmt.Sprintf("User %s registered", u.NamaLengkap), models.LogSuccess, nil)
	return &u, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords both yield
// ErrUnauthorized; the latter is also recorded as a failed login.
func (s *Service) Authenticate(ctx context.Context, email, password, ip string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("email", "Email dan password harus diisi")
	}
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	a := Actor{ID: u.ID, Role: u.Role, IP: ip}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		s.record(ctx, a, "LOGIN", fmt.Sprintf("Failed login for %s", u.NamaLengkap), models.LogFailure, nil)
		return nil, ErrUnauthorized
	}
	s.record(ctx, a, "LOGIN", fmt.Sprintf("User %s logged in", u.NamaLengkap), models.LogSuccess, nil)
	return &u, nil
}

func (s *Service) RecordLogout(ctx context.Context, a Actor) {
	s.record(ctx, a, "LOGOUT", "User logged out", models.LogSuccess, nil)
}

// ReferenceData lists the divisions and branches offered at registration.
type ReferenceData struct {
	Divisions []models.Division `json:"divisions"`
	Branches  []models.Branch   `json:"branches"`
}

func (s *Service) ReferenceData(ctx context.Context) (*ReferenceData, error) {
	out := ReferenceData{Divisions: []models.Division{}, Branches: []models.Branch{}}
	db := s.db.WithContext(ctx)
	if err := db.Order("name asc").Find(&out.Divisions).Error; err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	if err := db.Order("name asc").Find(&out.Branches).Error; err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return &out, nil
}
