package waitlist

import (
	"context"
	"fmt"

	"github.com/serpstrategist/site/internal/db"
	"gorm.io/gorm"
)

// SQLRepository stores subscribers in the waitlist_subscribers table of the
// shared relational pool. The pool is owned by the caller.
type SQLRepository struct {
	db *gorm.DB
}

// NewSQLRepository creates a SQLRepository on an open pool.
func NewSQLRepository(gdb *gorm.DB) *SQLRepository {
	return &SQLRepository{db: gdb}
}

func (r *SQLRepository) Name() string { return "sql" }

// Add relies on the unique email index, so concurrent signups for one email
// resolve to exactly one row and ErrDuplicate for the rest.
func (r *SQLRepository) Add(ctx context.Context, sub Subscriber) error {
	record := db.Subscriber{
		ID:        sub.ID,
		Email:     sub.Email,
		Source:    sub.Source,
		IPAddress: sub.IPAddress,
		UserAgent: sub.UserAgent,
		CreatedAt: sub.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&record).Error
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) && r.emailExists(ctx, sub.Email) {
		return ErrDuplicate
	}
	return fmt.Errorf("store subscriber: %w", err)
}

// emailExists 区分邮箱冲突与主键冲突。
func (r *SQLRepository) emailExists(ctx context.Context, email string) bool {
	var existing db.Subscriber
	return r.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error == nil
}

func (r *SQLRepository) List(ctx context.Context) ([]Subscriber, error) {
	var records []db.Subscriber
	if err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	subscribers := make([]Subscriber, 0, len(records))
	for _, rec := range records {
		subscribers = append(subscribers, Subscriber{
			ID:        rec.ID,
			Email:     rec.Email,
			CreatedAt: rec.CreatedAt,
			Source:    rec.Source,
			IPAddress: rec.IPAddress,
			UserAgent: rec.UserAgent,
		})
	}
	return subscribers, nil
}

func (r *SQLRepository) Close() error { return nil }
