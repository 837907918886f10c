package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultArchiveSchedule runs at 02:00 on the first day of every month.
const DefaultArchiveSchedule = "0 2 1 * *"

const archiveRunTimeout = 5 * time.Minute

// Scheduler runs the roster archive on a cron expression.
type Scheduler struct {
	cron        *cron.Cron
	archiver    *RosterArchiver
	communities []int64
	logger      *zap.Logger
}

// NewScheduler registers the archive job. The expression uses the standard
// five-field cron syntax evaluated in loc.
func NewScheduler(archiver *RosterArchiver, spec string, communities []int64, loc *time.Location, logger *zap.Logger) (*Scheduler, error) {
	if archiver == nil {
		return nil, errors.New("scheduler: archiver is required")
	}
	if spec == "" {
		spec = DefaultArchiveSchedule
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		archiver:    archiver,
		communities: append([]int64(nil), communities...),
		logger:      logger,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler until ctx is done, then waits for a running job.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting roster archive scheduler", zap.Int("communities", len(s.communities)))
	s.cron.Start()
	<-ctx.Done()
	s.logger.Info("stopping roster archive scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce archives every configured community and returns how many succeeded.
// A failing community does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	archived := 0
	for _, communityID := range s.communities {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.archiver.Archive(ctx, communityID); err != nil {
			s.logger.Error("roster archive failed", zap.Int64("community_id", communityID), zap.Error(err))
			continue
		}
		archived++
	}
	return archived
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), archiveRunTimeout)
	defer cancel()
	n := s.RunOnce(ctx)
	s.logger.Info("roster archive run finished", zap.Int("archived", n), zap.Int("communities", len(s.communities)))
}
