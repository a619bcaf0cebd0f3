// Package clock provides the countdown tick source.
package clock

import (
	"sync"
	"time"
)

// Ticker forwards one tick per interval between Start and Stop. Every run
// gets a fresh channel that is closed once the run is stopped, so a reader
// left over from an earlier run never receives a late tick.
type Ticker struct {
	interval time.Duration

	mu      sync.Mutex
	running bool
	ch      chan time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewTicker returns a stopped Ticker. A non-positive interval means one second.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	closed := make(chan time.Time)
	close(closed)
	return &Ticker{interval: interval, ch: closed}
}

// Start launches the ticking loop. It is a no-op while running.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.ch = make(chan time.Time)
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.run(t.ch, t.stopCh, t.doneCh)
}

// Stop terminates the loop and waits for it to exit. Stop is idempotent.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	done := t.doneCh
	t.mu.Unlock()
	<-done
}

// C returns the channel of the current run. After Stop it is closed.
func (t *Ticker) C() <-chan time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ch
}

func (t *Ticker) run(ch chan<- time.Time, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	ticker := time.NewTicker(t.interval)
	defer func() {
		ticker.Stop()
		close(ch)
		close(doneCh)
	}()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			select {
			case ch <- tickTime:
			case <-stopCh:
				return
			}
		}
	}
}
