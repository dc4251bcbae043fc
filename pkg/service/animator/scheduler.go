package animator

import (
	"sync"
	"time"
)

// Timer is a handle on a repeating scheduled task
type Timer interface {
	// Stop cancels the task. It does not wait for a tick already running.
	Stop()
}

// Scheduler runs fn every interval until the returned Timer is stopped
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

// TickerScheduler schedules ticks with time.Ticker, one goroutine per timer
type TickerScheduler struct{}

// Every implements Scheduler
func (TickerScheduler) Every(interval time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()

	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
