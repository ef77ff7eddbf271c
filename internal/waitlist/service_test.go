package waitlist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepository struct{}

func (failingRepository) Name() string { return "broken" }
func (failingRepository) Add(context.Context, Subscriber) error {
	return errors.New("disk full")
}
func (failingRepository) List(context.Context) ([]Subscriber, error) {
	return nil, errors.New("disk full")
}
func (failingRepository) Close() error { return nil }

func TestService_AddSubscriber(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewFileRepository(filepath.Join(t.TempDir(), "s.json"))).
		WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	res := svc.AddSubscriber(ctx, "  a@x.com ", Metadata{Source: "hero", IPAddress: "10.0.0.1", UserAgent: "ua"})
	require.True(t, res.Success)
	require.NotNil(t, res.Subscriber)
	assert.Equal(t, "a@x.com", res.Subscriber.Email)
	assert.Equal(t, fixed, res.Subscriber.CreatedAt)
	assert.NotEmpty(t, res.Subscriber.ID)
	assert.Equal(t, "hero", res.Subscriber.Source)

	dup := svc.AddSubscriber(ctx, "a@x.com", Metadata{})
	assert.False(t, dup.Success)
	assert.Equal(t, CodeDuplicate, dup.Code)
	assert.NotEmpty(t, dup.Error)

	subs, err := svc.Subscribers(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "file", svc.Backend())
}

func TestService_ServerError(t *testing.T) {
	svc := NewService(failingRepository{})

	res := svc.AddSubscriber(context.Background(), "a@x.com", Metadata{})
	assert.False(t, res.Success)
	assert.Equal(t, CodeServerError, res.Code)
	assert.Nil(t, res.Subscriber)

	subs, err := svc.Subscribers(context.Background())
	assert.EqualError(t, err, "disk full")
	assert.Nil(t, subs)
}

func TestService_SubscribersEmptyStore(t *testing.T) {
	svc := NewService(NewFileRepository(filepath.Join(t.TempDir(), "missing.json")))

	subs, err := svc.Subscribers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}
