package scheduler

import (
	"context"
	"time"

	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/go-co-op/gocron/v2"
)

const sweeperJobName = "deadline-sweeper"

type CampaignCloser interface {
	IsPaused(ctx context.Context) (bool, error)
	ExpiredCampaigns(ctx context.Context) ([]ledger.CampaignID, error)
	EndCampaign(ctx context.Context, caller ledger.Identity, id ledger.CampaignID) (bool, error)
}

// DeadlineSweeper ends campaigns whose deadline passed without reaching the goal,
// so their contributors can claim refunds without anyone ending them by hand
type DeadlineSweeper struct {
	ledger   CampaignCloser
	caller   ledger.Identity
	interval time.Duration
	log      interfaces.ILogger
}

func NewDeadlineSweeper(l CampaignCloser, caller ledger.Identity, interval time.Duration, log interfaces.ILogger) *DeadlineSweeper {
	return &DeadlineSweeper{
		ledger:   l,
		caller:   caller,
		interval: interval,
		log:      log,
	}
}

func (s *DeadlineSweeper) Run(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			_, _ = s.Sweep(ctx)
		}),
		gocron.WithName(sweeperJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	sched.Start()
	s.log.Infof("deadline sweeper started, interval %s", s.interval)

	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		s.log.Warnf("deadline sweeper shutdown: %s", err)
	}
	s.log.Info("deadline sweeper stopped")
	return nil
}

// Sweep ends every expired unsuccessful campaign and returns how many were ended.
// Failures on one campaign do not stop the others
func (s *DeadlineSweeper) Sweep(ctx context.Context) (int, error) {
	paused, err := s.ledger.IsPaused(ctx)
	if err != nil {
		s.log.Errorf("sweep: %s", err)
		return 0, err
	}
	if paused {
		s.log.Debug("sweep skipped, ledger is paused")
		return 0, nil
	}

	ids, err := s.ledger.ExpiredCampaigns(ctx)
	if err != nil {
		s.log.Errorf("sweep: %s", err)
		return 0, err
	}

	ended := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ended, ctx.Err()
		}
		if _, err := s.ledger.EndCampaign(ctx, s.caller, id); err != nil {
			s.log.Warnf("sweep: campaign %d not ended: %s", id, err)
			continue
		}
		ended++
	}

	if ended > 0 {
		s.log.Infof("sweep ended %d campaigns", ended)
	}
	return ended, nil
}
