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

type ProfileUpdate struct {
	NamaLengkap    *string        `json:"nama_lengkap"`
	ProfilePicture NullableString `json:"profile_picture"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

const minPasswordLen = 6

func (s *Service) Profile(ctx context.Context, a Actor) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, a.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &u, nil
}

// UpdateProfile changes the display name and/or profile picture. An explicit null
// picture removes it.
func (s *Service) UpdateProfile(ctx context.Context, a Actor, in ProfileUpdate) (*models.User, error) {
	updates := map[string]any{}
	var name string
	if in.NamaLengkap != nil {
		name = strings.TrimSpace(*in.NamaLengkap)
		if name != "" {
			updates["nama_lengkap"] = name
		}
	}
	if in.ProfilePicture.Set {
		updates["profile_picture"] = in.ProfilePicture.Value
	}
	if len(updates) == 0 {
		return nil, invalid("nama_lengkap", "No data to update")
	}
	if _, err := s.Profile(ctx, a); err != nil {
		return nil, err
	}

	updates["updated_at"] = s.clock()
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", a.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	desc := "User updated their profile"
	if name != "" {
		desc = fmt.Sprintf("User updated their profile name to \"%s\"", name)
	}
	s.record(ctx, a, "UPDATE", desc, models.LogSuccess, nil)
	return s.Profile(ctx, a)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, a Actor, in PasswordChange) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return invalid("new_password", "Password lama dan baru wajib diisi")
	}
	if len(in.NewPassword) < minPasswordLen {
		return invalid("new_password", fmt.Sprintf("Password minimal %d karakter", minPasswordLen))
	}
	u, err := s.Profile(ctx, a)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(u.PasswordHash, in.CurrentPassword); err != nil {
		s.record(ctx, a, "UPDATE", "Password change rejected: wrong current password", models.LogFailure, nil)
		return invalid("current_password", "Password lama salah")
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", a.ID).
		Updates(map[string]any{"password": hash, "updated_at": s.clock()}).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.record(ctx, a, "UPDATE", "User changed their password", models.LogSuccess, nil)
	return nil
}
