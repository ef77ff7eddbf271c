package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serpstrategist/site/internal/logging"
	"gorm.io/gorm"
)

// Backend names accepted by Select.
const (
	BackendAuto = "auto"
	BackendKV   = "kv"
	BackendSQL  = "sql"
	BackendFile = "file"
)

const defaultProbeTimeout = 2 * time.Second

// Options configures backend selection.
type Options struct {
	Backend      string
	KVURL        string
	FilePath     string
	ProbeTimeout time.Duration
}

// Select picks the subscriber repository once at startup. In auto mode a
// configured and reachable key-value store wins, otherwise the local file is
// used. Forcing kv or sql fails instead of falling back.
func Select(ctx context.Context, opts Options, gdb *gorm.DB) (Repository, error) {
	logger := logging.Component("waitlist")

	switch opts.Backend {
	case BackendKV:
		if opts.KVURL == "" {
			return nil, errors.New("waitlist backend kv requires KV_URL")
		}
		repo, err := probeRedis(ctx, opts)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case BackendSQL:
		if gdb == nil {
			return nil, errors.New("waitlist backend sql requires a database")
		}
		return NewSQLRepository(gdb), nil
	case BackendFile:
		return NewFileRepository(opts.FilePath), nil
	}

	if opts.KVURL != "" {
		repo, err := probeRedis(ctx, opts)
		if err == nil {
			return repo, nil
		}
		logger.Warn().Err(err).Str("fallback", BackendFile).Msg("kv store unavailable")
	}
	return NewFileRepository(opts.FilePath), nil
}

func probeRedis(ctx context.Context, opts Options) (*RedisRepository, error) {
	repo, err := NewRedisRepositoryFromURL(opts.KVURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := repo.Ping(probeCtx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("ping kv store: %w", err)
	}
	return repo, nil
}
