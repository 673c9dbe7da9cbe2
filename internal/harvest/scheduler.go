package harvest

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"msver/internal/providers"
	"msver/internal/structures"
)

// SchedulerInterface is what the application wires against.
type SchedulerInterface interface {
	Init()
	Stop()
}

// Scheduler drives the two harvesters. Each enabled harvester runs once
// at startup (the Windows one after its configured delay) and then on a
// recurring cron schedule. A run failure is logged and the next tick
// fires regardless. Stop cancels a pending startup delay and waits for
// in-flight runs before stopping the cron.
type Scheduler struct {
	conf    *structures.Config
	logger  providers.Logger
	office  Refresher
	windows Refresher

	cron   *gron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(conf *structures.Config, logger providers.Logger, office *Office365Harvester, windows *WindowsHarvester) SchedulerInterface {
	return &Scheduler{
		conf:    conf,
		logger:  logger,
		office:  office,
		windows: windows,
	}
}

func (s *Scheduler) Init() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.cron = gron.New()
	s.cron.Start()

	if s.conf.Office365.Enabled {
		s.schedule(ctx, s.office, 0, s.conf.Office365.Interval)
	} else {
		s.logger.Infof(providers.TypeApp, "Office 365 harvester disabled")
	}

	if s.conf.Windows.Enabled {
		// The startup delay keeps the heavier Windows harvest out of
		// the boot window.
		s.schedule(ctx, s.windows, s.conf.Windows.StartupDelay, s.conf.Windows.Interval)
	} else {
		s.logger.Infof(providers.TypeApp, "Windows harvester disabled")
	}
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	if s.cron != nil {
		s.cron.Stop()
	}
}

// schedule runs the harvester once up front, then hands the recurring
// interval to the cron. Stop during the startup delay skips the first
// run and never registers the schedule.
func (s *Scheduler) schedule(ctx context.Context, r Refresher, delay, interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if delay > 0 && !sleepCtx(ctx, delay) {
			return
		}
		s.runOnce(ctx, r)
		s.cron.AddFunc(gron.Every(interval), func() {
			s.runOnce(ctx, r)
		})
	}()
}

func (s *Scheduler) runOnce(ctx context.Context, r Refresher) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Infof(providers.TypeHarvest, "Starting %s harvest", r.Name())
	if err := r.RefreshData(ctx); err != nil {
		s.logger.Errorf(providers.TypeHarvest, "%s harvest run failed: %s", r.Name(), err)
		return
	}
	s.logger.Infof(providers.TypeHarvest, "%s harvest run complete", r.Name())
}

// sleepCtx waits for d, returning false when the context is cancelled
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
