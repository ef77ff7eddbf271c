// Package waitlist captures pre-launch email signups. Storage is a
// Repository chosen once at startup: a Redis key-value store, a relational
// table, or a local JSON file.
package waitlist

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicate is returned by Repository.Add when the email is already stored.
var ErrDuplicate = errors.New("email already subscribed")

// Subscriber is one waitlist signup.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Source    string    `json:"source,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// Metadata is optional provenance captured with a signup. It is never validated.
type Metadata struct {
	Source    string
	IPAddress string
	UserAgent string
}

// Repository stores subscribers with unique emails.
type Repository interface {
	// Name identifies the backend in logs and admin responses.
	Name() string
	// Add stores sub, or returns ErrDuplicate when sub.Email already exists.
	Add(ctx context.Context, sub Subscriber) error
	// List returns every subscriber in signup order.
	List(ctx context.Context) ([]Subscriber, error)
	Close() error
}
