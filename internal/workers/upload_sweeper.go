package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"teamchat/internal/logger"
	"teamchat/internal/metrics"

	"github.com/adhocore/gronx"
	"gorm.io/gorm"
)

const sweepBatchSize = 500

var ErrSweepInProgress = errors.New("upload sweep already running")

// OrphanSweeper removes uploads that no message references. UploadService satisfies it.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context, db *gorm.DB, cutoff time.Time, limit int) (int, error)
}

// UploadSweeper deletes orphaned uploads on a cron schedule.
type UploadSweeper struct {
	db        *gorm.DB
	sweeper   OrphanSweeper
	cron      string
	olderThan time.Duration
	now       func() time.Time
	mu        sync.Mutex
	running   bool
}

func NewUploadSweeper(db *gorm.DB, sweeper OrphanSweeper, cron string, olderThan time.Duration) (*UploadSweeper, error) {
	if !gronx.New().IsValid(cron) {
		return nil, fmt.Errorf("invalid cron expression %q", cron)
	}
	return &UploadSweeper{
		db:        db,
		sweeper:   sweeper,
		cron:      cron,
		olderThan: olderThan,
		now:       time.Now,
	}, nil
}

// Start runs the schedule loop in the background until ctx is cancelled.
func (w *UploadSweeper) Start(ctx context.Context) {
	logger.Info("Upload sweeper started", "cron", w.cron, "older_than", w.olderThan.String())
	go w.scheduleLoop(ctx)
}

func (w *UploadSweeper) scheduleLoop(ctx context.Context) {
	for {
		next, err := gronx.NextTickAfter(w.cron, w.now(), false)
		if err != nil {
			logger.Error("Upload sweeper failed to compute next tick", "cron", w.cron, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			if _, err := w.RunOnce(ctx); err != nil && !errors.Is(err, ErrSweepInProgress) {
				logger.Warn("Upload sweep failed", "error", err)
			}
		case <-ctx.Done():
			logger.Info("Upload sweeper stopped")
			return
		}
	}
}

// RunOnce sweeps every orphan older than the configured age. Overlapping calls return ErrSweepInProgress.
func (w *UploadSweeper) RunOnce(ctx context.Context) (int, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return 0, ErrSweepInProgress
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	start := time.Now()
	cutoff := w.now().Add(-w.olderThan)

	total := 0
	var err error
	for {
		var n int
		n, err = w.sweeper.SweepOrphans(ctx, w.db, cutoff, sweepBatchSize)
		total += n
		if err != nil || n < sweepBatchSize {
			break
		}
	}

	metrics.SweptUploads.Add(float64(total))
	logger.WorkerLog("upload_sweeper", "sweep_orphans", time.Since(start), err)
	return total, err
}
