package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"ideagraph.backend/pkg/logger"
)

const sessionSweepBatch = 500

type sessionExpirer interface {
	ExpireStale(ctx context.Context, now time.Time, limit int) (int64, error)
}

// SessionExpiryJob marks refresh sessions past their expiry as expired
type SessionExpiryJob struct {
	repo     sessionExpirer
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionExpiryJob(repo sessionExpirer, interval time.Duration) *SessionExpiryJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SessionExpiryJob{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *SessionExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting session expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Session expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Session expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *SessionExpiryJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// sweep drains expired sessions in batches until a short batch comes back
func (j *SessionExpiryJob) sweep(ctx context.Context) int64 {
	var total int64
	for {
		n, err := j.repo.ExpireStale(ctx, time.Now().UTC(), sessionSweepBatch)
		if err != nil {
			logger.Error(ctx, "Failed to expire stale sessions", zap.Error(err))
			return total
		}
		total += n
		if n < sessionSweepBatch || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		logger.Info(ctx, "Expired stale sessions", zap.Int64("count", total))
	}
	return total
}
