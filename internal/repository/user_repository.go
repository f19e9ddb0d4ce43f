package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/listing"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	RecordSignIn(ctx context.Context, id uint, ip string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	TouchLastSeen(ctx context.Context, id uint, at time.Time, minInterval time.Duration) (bool, error)
	ListingSource() listing.Source[domain.User]
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, r.lookupError(ctx, "find_by_id", err)
	}
	observability.RecordRepositoryOperation(ctx, "user", "find_by_id", "success")
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, r.lookupError(ctx, "find_by_email", err)
	}
	observability.RecordRepositoryOperation(ctx, "user", "find_by_email", "success")
	return &u, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "create", "success")
	return nil
}

// RecordSignIn bumps the trackable columns in one UPDATE. The previous
// current_sign_in_ip moves to last_sign_in_ip.
func (r *GormUserRepository) RecordSignIn(ctx context.Context, id uint, ip string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"last_seen":          at,
		"sign_in_count":      gorm.Expr("sign_in_count + 1"),
		"last_sign_in_ip":    gorm.Expr("current_sign_in_ip"),
		"current_sign_in_ip": ip,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "record_sign_in", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "record_sign_in", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user", "record_sign_in", "success")
	return nil
}

func (r *GormUserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "update_password_hash", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "update_password_hash", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user", "update_password_hash", "success")
	return nil
}

// TouchLastSeen moves last_seen to at unless it was already written within
// minInterval, so busy sessions cost at most one write per interval. It does
// not bump updated_at. Reports whether a row was written.
func (r *GormUserRepository) TouchLastSeen(ctx context.Context, id uint, at time.Time, minInterval time.Duration) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND (last_seen IS NULL OR last_seen < ?)", id, at.Add(-minInterval)).
		UpdateColumn("last_seen", at)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "touch_last_seen", "error")
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "touch_last_seen", "skipped")
		return false, nil
	}
	observability.RecordRepositoryOperation(ctx, "user", "touch_last_seen", "success")
	return true, nil
}

func (r *GormUserRepository) ListingSource() listing.Source[domain.User] {
	return NewGormSource[domain.User](r.db, "user")
}

func (r *GormUserRepository) lookupError(ctx context.Context, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.RecordRepositoryOperation(ctx, "user", op, "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user", op, "error")
	return err
}
