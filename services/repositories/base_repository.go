package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrVersionConflict means the row changed between read and write.
var ErrVersionConflict = errors.New("profile was modified concurrently")

// BaseRepository holds the shared connection for the concrete repositories.
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

func (r *BaseRepository) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return r.db
	}
	return r.db.WithContext(ctx)
}
