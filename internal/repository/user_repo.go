package repository

import (
	"context"
	"strings"
	"time"

	"tourbooking/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// SessionRepository stores login sessions and one-time authorization codes.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	s.ExpiresAt = s.ExpiresAt.UTC()
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now().UTC()).Error
}

func (r *SessionRepository) CreateCode(ctx context.Context, c *domain.AuthCode) error {
	c.ExpiresAt = c.ExpiresAt.UTC()
	return r.db.WithContext(ctx).Create(c).Error
}

// ConsumeCode marks an unused, unexpired code as used and returns its user.
// The conditional UPDATE makes a code redeemable exactly once.
func (r *SessionRepository) ConsumeCode(ctx context.Context, code string, now time.Time) (string, error) {
	now = now.UTC()
	tx := r.db.WithContext(ctx).
		Model(&domain.AuthCode{}).
		Where("code = ? AND used_at IS NULL AND expires_at > ?", code, now).
		Update("used_at", now)
	if tx.Error != nil {
		return "", tx.Error
	}
	if tx.RowsAffected == 0 {
		return "", gorm.ErrRecordNotFound
	}

	var c domain.AuthCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return "", err
	}
	return c.UserID, nil
}

// PurgeExpired deletes sessions that expired or were revoked before cutoff and
// auth codes that are used or expired. It returns the rows removed from each table.
func (r *SessionRepository) PurgeExpired(ctx context.Context, now, cutoff time.Time) (sessions, codes int64, err error) {
	now, cutoff = now.UTC(), cutoff.UTC()
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", now, cutoff).
			Delete(&domain.Session{})
		if res.Error != nil {
			return res.Error
		}
		sessions = res.RowsAffected

		res = tx.Where("expires_at < ? OR used_at IS NOT NULL", now).Delete(&domain.AuthCode{})
		if res.Error != nil {
			return res.Error
		}
		codes = res.RowsAffected
		return nil
	})
	return sessions, codes, err
}
