package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

var ErrCountdownActive = errors.New("a transition is already in progress")

// Orchestrator owns the countdown for stage transitions. Exactly one ticking
// goroutine exists per process: admin clients only request transitions and
// observe ticks over SSE, they never drive the timer themselves. Starting a
// second transition while one is in flight fails with ErrCountdownActive.
type Orchestrator struct {
	store    Store
	broker   *Broker
	logger   *slog.Logger
	interval time.Duration

	// base bounds the ticking goroutine's lifetime to the server's.
	base context.Context

	mu   sync.Mutex
	stop context.CancelFunc // non-nil while a ticker goroutine runs
	done chan struct{}
}

func NewOrchestrator(base context.Context, store Store, broker *Broker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		broker:   broker,
		logger:   logger,
		interval: time.Second,
		base:     base,
	}
}

// Start writes the pending transition to the control state and begins
// ticking. The initial write is the only point at which the transition
// becomes externally observable as pending.
func (o *Orchestrator) Start(ctx context.Context, t contest.Transition) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stop != nil {
		return ErrCountdownActive
	}

	state, err := o.store.ControlState(ctx)
	if err != nil {
		return err
	}
	if state.CountingDown() {
		return ErrCountdownActive
	}

	state.Countdown = &t
	if err := o.store.SaveControlState(ctx, state); err != nil {
		return err
	}
	o.publish(ctx)

	o.startLocked(t)
	return nil
}

// Resume picks up a persisted in-flight countdown, e.g. after a restart.
// No-op when the state is idle or a ticker is already running.
func (o *Orchestrator) Resume(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stop != nil {
		return nil
	}
	state, err := o.store.ControlState(ctx)
	if err != nil {
		return err
	}
	if !state.CountingDown() {
		return nil
	}

	o.logger.Info("resuming in-flight countdown", "remaining", state.Countdown.Remaining)
	o.startLocked(*state.Countdown)
	return nil
}

// Cancel stops the ticker and resets the control state to idle, discarding
// the pending transition. The committed contestant and flags are untouched.
func (o *Orchestrator) Cancel(ctx context.Context) error {
	o.Stop()

	state, err := o.store.ControlState(ctx)
	if err != nil {
		return err
	}
	if !state.CountingDown() {
		return nil
	}
	if err := o.store.SaveControlState(ctx, state.Cancel()); err != nil {
		return err
	}
	o.publish(ctx)
	return nil
}

// Stop halts the ticking goroutine without touching the store.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	stop, done := o.stop, o.done
	o.stop, o.done = nil, nil
	o.mu.Unlock()

	if stop == nil {
		return
	}
	stop()
	<-done
}

// Active reports whether a ticking goroutine is running.
func (o *Orchestrator) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stop != nil
}

func (o *Orchestrator) startLocked(t contest.Transition) {
	ctx, cancel := context.WithCancel(o.base)
	done := make(chan struct{})
	o.stop = cancel
	o.done = done
	go o.tick(ctx, done, t)
}

func (o *Orchestrator) clear() {
	o.mu.Lock()
	if o.stop != nil {
		o.stop()
	}
	o.stop = nil
	o.done = nil
	o.mu.Unlock()
}

// tick decrements the shared countdown once per interval. Each decrement is
// persisted and fanned out; reaching zero commits the whole pending triple in
// a single write. A failed write tears the ticker down and best-effort resets
// the state to idle so no orphaned timer keeps writing.
func (o *Orchestrator) tick(ctx context.Context, done chan struct{}, t contest.Transition) {
	defer close(done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	remaining := t.Remaining
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		remaining--

		state, err := o.store.ControlState(ctx)
		if err == nil && !state.CountingDown() {
			// Cancelled out from under us (e.g. direct stage clear).
			o.clear()
			return
		}
		if err == nil {
			if remaining <= 0 {
				state.Countdown = &t
				state.Countdown.Remaining = 0
				err = o.store.SaveControlState(ctx, state.Commit())
			} else {
				state.Countdown.Remaining = remaining
				err = o.store.SaveControlState(ctx, state)
			}
		}

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			o.logger.Error("countdown tick failed, aborting transition", "error", err)
			o.clear()
			o.reset()
			return
		}

		o.publish(ctx)

		if remaining <= 0 {
			o.clear()
			return
		}
	}
}

// reset makes a best-effort attempt to return the control state to idle
// after a tick failure. If this write fails too, the record stays in its
// counting-down shape and an admin must cancel manually.
func (o *Orchestrator) reset() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state, err := o.store.ControlState(ctx)
	if err == nil && state.CountingDown() {
		err = o.store.SaveControlState(ctx, state.Cancel())
	}
	if err != nil {
		o.logger.Error("failed to reset control state after tick error", "error", err)
		return
	}
	o.publish(ctx)
}

func (o *Orchestrator) publish(ctx context.Context) {
	resp, err := controlResponse(ctx, o.store)
	if err != nil {
		o.logger.Error("building control event", "error", err)
		return
	}
	o.broker.Publish(Event{Type: "control", Control: &resp})
}
