package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"siar/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionRevoked = errors.New("session expired or revoked")

// Issued is a freshly signed session token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Sessions persists one row per login so tokens can be revoked and slid forward.
type Sessions struct {
	db           *gorm.DB
	signer       *Signer
	refreshAfter time.Duration
	now          func() time.Time
}

func NewSessions(db *gorm.DB, signer *Signer, refreshAfter time.Duration) *Sessions {
	return &Sessions{db: db, signer: signer, refreshAfter: refreshAfter, now: time.Now}
}

// Issue starts a new session for u.
func (s *Sessions) Issue(ctx context.Context, u models.User) (Issued, error) {
	c := Claims{
		UserID:  u.ID,
		Role:    string(u.Role),
		Divisi:  u.Divisi,
		Cabang:  u.Cabang,
		NomorID: u.NomorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:      uuid.NewString(),
			Subject: strconv.FormatUint(uint64(u.ID), 10),
		},
	}
	tok, exp, err := s.signer.Sign(c)
	if err != nil {
		return Issued{}, fmt.Errorf("sign session: %w", err)
	}
	sess := models.Session{JTI: c.ID, UserID: u.ID, ExpiresAt: exp, CreatedAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return Issued{}, fmt.Errorf("store session: %w", err)
	}
	return Issued{Token: tok, ExpiresAt: exp}, nil
}

// Resolve verifies a token against its session row. When the token is older than the
// refresh window it is re-signed and the row extended; the new token is returned.
func (s *Sessions) Resolve(ctx context.Context, token string) (Claims, *Issued, error) {
	c, err := s.signer.Verify(token)
	if err != nil {
		return Claims{}, nil, err
	}
	var sess models.Session
	if err := s.db.WithContext(ctx).First(&sess, "jti = ?", c.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Claims{}, nil, ErrSessionRevoked
		}
		return Claims{}, nil, err
	}
	now := s.now()
	if sess.RevokedAt != nil || now.After(sess.ExpiresAt) {
		return Claims{}, nil, ErrSessionRevoked
	}
	if c.IssuedAt == nil || now.Sub(c.IssuedAt.Time) < s.refreshAfter {
		return c, nil, nil
	}

	tok, exp, err := s.signer.Sign(c)
	if err != nil {
		return c, nil, fmt.Errorf("re-sign session: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("jti = ?", c.ID).Update("expires_at", exp).Error; err != nil {
		return c, nil, fmt.Errorf("extend session: %w", err)
	}
	return c, &Issued{Token: tok, ExpiresAt: exp}, nil
}

func (s *Sessions) Revoke(ctx context.Context, jti string) error {
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", s.now()).Error
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func SetSessionCookie(w http.ResponseWriter, name string, iss Issued, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    iss.Token,
		Path:     "/",
		Expires:  iss.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
