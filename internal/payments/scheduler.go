package payments

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
)

// Ticker is the handle of a running fixed interval task.
type Ticker interface {
	Stop()
}

// Scheduler runs a task right away and then at a fixed interval until the returned ticker is stopped.
type Scheduler interface {
	Start(interval time.Duration, task func()) (Ticker, error)
}

// Timer is a one-shot delayed call, *time.Timer implements it.
type Timer interface {
	Stop() bool
}

// Clock abstracts the time functions used by the poller.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// GocronScheduler gives every poll session its own gocron scheduler. Jobs run in singleton
// mode so that a slow status check is never overlapped by the next one.
type GocronScheduler struct {
	location *time.Location
}

func NewGocronScheduler() *GocronScheduler {
	return &GocronScheduler{location: time.UTC}
}

func (g *GocronScheduler) Start(interval time.Duration, task func()) (Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid poll interval %s", interval)
	}
	s := gocron.NewScheduler(g.location)
	ticker := &gocronTicker{scheduler: s}
	_, err := s.Every(interval).
		SingletonMode().
		Do(func() {
			if ticker.stopped.Load() {
				return
			}
			task()
		})
	if err != nil {
		return nil, err
	}
	s.StartAsync()
	return ticker, nil
}

type gocronTicker struct {
	scheduler *gocron.Scheduler
	stopped   atomic.Bool
	once      sync.Once
}

// Stop can be called from within the task. gocron waits for running jobs when stopping,
// so the scheduler itself is stopped in the background.
func (t *gocronTicker) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		go func() {
			t.scheduler.Stop()
			slog.Debug("PAYMENT POLLER", "message", "scheduler stopped")
		}()
	})
}
