package session

import (
	"context"
	"errors"
	"time"

	"github.com/ortosupport/course-assistant/database/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps sessions in the sessions table.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (b *GormBackend) Save(ctx context.Context, rec *Record) error {
	row := &model.Session{
		Token:     rec.Token,
		UserId:    rec.UserID,
		Data:      rec.Data,
		ExpiresAt: rec.ExpiresAt,
	}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "data", "expires_at"}),
		}).
		Create(row).Error
}

func (b *GormBackend) Load(ctx context.Context, token string) (*Record, error) {
	var row model.Session
	err := b.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Record{
		Token:     row.Token,
		UserID:    row.UserId,
		Data:      row.Data,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (b *GormBackend) Delete(ctx context.Context, token string) error {
	return b.db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{}).Error
}

// PurgeExpired deletes sessions that expired before now and returns how many were removed.
func (b *GormBackend) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
