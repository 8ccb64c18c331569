package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm-backed persistence layer. A Store obtained inside
// Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Transaction runs fn with a Store bound to a single database transaction.
// A primary write and its compensating writes go through one call.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Create inserts v and its loaded associations.
func Create[T any](ctx context.Context, s *Store, v *T) error {
	return s.conn(ctx).Create(v).Error
}

// Get loads one row by primary key. A missing row yields gorm.ErrRecordNotFound.
func Get[T any](ctx context.Context, s *Store, id uint, preloads ...string) (*T, error) {
	var v T
	q := s.conn(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// List loads every row ordered by primary key.
func List[T any](ctx context.Context, s *Store, preloads ...string) ([]T, error) {
	items := []T{}
	q := s.conn(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Taken reports whether another row already holds value in column.
func Taken[T any](ctx context.Context, s *Store, column string, value any, excludeID uint) (bool, error) {
	var count int64
	q := s.conn(ctx).Model(new(T)).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes the given columns on the row with id.
func Update[T any](ctx context.Context, s *Store, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := s.conn(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the row with id, returning gorm.ErrRecordNotFound when it is absent.
func Delete[T any](ctx context.Context, s *Store, id uint) error {
	res := s.conn(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountIDs returns how many of ids exist in T's table.
func CountIDs[T any](ctx context.Context, s *Store, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := s.conn(ctx).Model(new(T)).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// IsNotFound reports a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

