package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vcmd/pkg/logging"
)

const refresherSubsystem = "SessionRefresher"

// refresher renews the client's authkey on a fixed interval for as long as
// the client lives. It never logs in on its own: once a refresh fails the
// slot stays empty until a caller authenticates again.
type refresher struct {
	client   *Client
	interval time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

func newRefresher(client *Client, interval time.Duration) *refresher {
	ctx, cancel := context.WithCancel(context.Background())
	return &refresher{
		client:   client,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// run blocks until stop is called.
func (r *refresher) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick performs one quiet refresh if an authkey is held.
func (r *refresher) tick() {
	defer func() {
		if p := recover(); p != nil {
			logging.Error(refresherSubsystem, fmt.Errorf("%v", p), "Refresh tick panicked")
		}
	}()

	if !r.client.Authenticated() {
		logging.Debug(refresherSubsystem, "No session held, skipping refresh")
		return
	}

	cred, err := r.client.Reauthenticate(r.ctx, false)
	if err != nil {
		logging.Debug(refresherSubsystem, "Background refresh failed, session dropped: %v", err)
		return
	}
	logging.Debug(refresherSubsystem, "Session refreshed, expires %s", cred.Expires.Format(time.RFC3339))
}

// stop cancels an in-flight tick and waits for the loop to exit.
func (r *refresher) stop() {
	r.stopOnce.Do(r.cancel)
	<-r.done
}
