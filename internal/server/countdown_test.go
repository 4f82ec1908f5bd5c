package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

// brokenSaveStore fails a set number of SaveControlState calls, passing
// everything else through.
type brokenSaveStore struct {
	Store
	mu    sync.Mutex
	fails int
}

func (s *brokenSaveStore) failNext(n int) {
	s.mu.Lock()
	s.fails = n
	s.mu.Unlock()
}

func (s *brokenSaveStore) SaveControlState(ctx context.Context, state contest.ControlState) error {
	s.mu.Lock()
	broken := s.fails > 0
	if broken {
		s.fails--
	}
	s.mu.Unlock()
	if broken {
		return errors.New("disk full")
	}
	return s.Store.SaveControlState(ctx, state)
}

// waitIdle polls until the orchestrator's ticking goroutine has exited.
func waitIdle(t *testing.T, orch *Orchestrator) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for orch.Active() {
		if time.Now().After(deadline) {
			t.Fatal("countdown did not finish in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCountdownCommitsAtZero(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	c := e.createContestant(t, "1", "Alpha")

	err := e.orch.Start(ctx, contest.Transition{
		Remaining:        2,
		NextContestantID: c.ID,
		JudgingOpen:      true,
	})
	if err != nil {
		t.Fatalf("starting countdown: %v", err)
	}
	waitIdle(t, e.orch)

	state, err := e.store.ControlState(ctx)
	if err != nil {
		t.Fatalf("reading control state: %v", err)
	}
	if state.CountingDown() {
		t.Error("expected countdown to be cleared after commit")
	}
	if state.CurrentContestantID != c.ID {
		t.Errorf("expected contestant %s on stage, got %q", c.ID, state.CurrentContestantID)
	}
	if !state.IsJudgingOpen {
		t.Error("expected judging to open with the commit")
	}
}

func TestCountdownRejectsConcurrentStart(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	c := e.createContestant(t, "1", "Alpha")

	if err := e.orch.Start(ctx, contest.Transition{Remaining: 100, NextContestantID: c.ID}); err != nil {
		t.Fatalf("starting countdown: %v", err)
	}

	err := e.orch.Start(ctx, contest.Transition{Remaining: 100, NextContestantID: c.ID})
	if !errors.Is(err, ErrCountdownActive) {
		t.Fatalf("expected ErrCountdownActive, got %v", err)
	}

	if err := e.orch.Cancel(ctx); err != nil {
		t.Fatalf("cancelling: %v", err)
	}

	// After a cancel the orchestrator accepts a fresh transition.
	if err := e.orch.Start(ctx, contest.Transition{Remaining: 100, NextContestantID: c.ID}); err != nil {
		t.Fatalf("restart after cancel: %v", err)
	}
	e.orch.Stop()
}

func TestCountdownCancelKeepsCommittedValues(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	c1 := e.createContestant(t, "1", "Alpha")
	c2 := e.createContestant(t, "2", "Beta")

	state, err := e.store.ControlState(ctx)
	if err != nil {
		t.Fatalf("reading control state: %v", err)
	}
	state.CurrentContestantID = c1.ID
	state.IsJudgingOpen = true
	if err := e.store.SaveControlState(ctx, state); err != nil {
		t.Fatalf("saving control state: %v", err)
	}

	if err := e.orch.Start(ctx, contest.Transition{Remaining: 100, NextContestantID: c2.ID}); err != nil {
		t.Fatalf("starting countdown: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := e.orch.Cancel(ctx); err != nil {
		t.Fatalf("cancelling: %v", err)
	}
	waitIdle(t, e.orch)

	state, err = e.store.ControlState(ctx)
	if err != nil {
		t.Fatalf("reading control state: %v", err)
	}
	if state.CountingDown() {
		t.Error("expected countdown to be discarded")
	}
	if state.CurrentContestantID != c1.ID {
		t.Errorf("expected %s to stay on stage, got %q", c1.ID, state.CurrentContestantID)
	}
	if !state.IsJudgingOpen {
		t.Error("expected committed judging flag to survive the cancel")
	}
}

func TestCountdownResume(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	c := e.createContestant(t, "1", "Alpha")

	// A countdown persisted by a previous process.
	state, err := e.store.ControlState(ctx)
	if err != nil {
		t.Fatalf("reading control state: %v", err)
	}
	state.Countdown = &contest.Transition{Remaining: 2, NextContestantID: c.ID, JudgingOpen: true}
	if err := e.store.SaveControlState(ctx, state); err != nil {
		t.Fatalf("saving control state: %v", err)
	}

	if err := e.orch.Resume(ctx); err != nil {
		t.Fatalf("resuming: %v", err)
	}
	if !e.orch.Active() {
		t.Fatal("expected resume to start ticking")
	}
	waitIdle(t, e.orch)

	state, err = e.store.ControlState(ctx)
	if err != nil {
		t.Fatalf("reading control state: %v", err)
	}
	if state.CurrentContestantID != c.ID || !state.IsJudgingOpen {
		t.Errorf("expected resumed countdown to commit, got %+v", state)
	}
}

func TestCountdownTickFailureResetsToIdle(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	c := e.createContestant(t, "1", "Alpha")

	broken := &brokenSaveStore{Store: e.store}
	orch := NewOrchestrator(ctx, broken, e.broker, discardLogger())
	orch.interval = 20 * time.Millisecond
	t.Cleanup(orch.Stop)

	if err := orch.Start(ctx, contest.Transition{Remaining: 100, NextContestantID: c.ID, JudgingOpen: true}); err != nil {
		t.Fatalf("starting countdown: %v", err)
	}
	// The next tick write fails; the orchestrator must tear down and reset.
	broken.failNext(1)
	waitIdle(t, orch)

	state, err := e.store.ControlState(ctx)
	if err != nil {
		t.Fatalf("reading control state: %v", err)
	}
	if state.CountingDown() {
		t.Error("expected the failed transition to be discarded")
	}
	if state.CurrentContestantID != "" || state.IsJudgingOpen {
		t.Errorf("expected committed values untouched, got %+v", state)
	}

	// The orchestrator stays usable for the next transition.
	if err := orch.Start(ctx, contest.Transition{Remaining: 100, NextContestantID: c.ID}); err != nil {
		t.Fatalf("restart after tick failure: %v", err)
	}
	orch.Stop()
}

func TestTransitionEndpoint(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminCookie(t)
	c := e.createContestant(t, "1", "Alpha")

	w := e.do(t, http.MethodPost, "/api/admin/transition", TransitionRequest{Action: contest.ActionNext}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[ControlResponse](t, w)
	if !resp.IsCountingDown {
		t.Error("expected counting down")
	}
	if resp.NextContestantID != c.ID {
		t.Errorf("expected next contestant %s, got %q", c.ID, resp.NextContestantID)
	}
	if resp.NextContestant == nil || resp.NextContestant.Name != "Alpha" {
		t.Errorf("expected resolved next contestant, got %+v", resp.NextContestant)
	}

	// A second transition while one is in flight is rejected.
	w = e.do(t, http.MethodPost, "/api/admin/transition", TransitionRequest{Action: contest.ActionNext}, admin)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for concurrent transition, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/admin/transition/cancel", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	waitIdle(t, e.orch)
	resp = decode[ControlResponse](t, w)
	if resp.IsCountingDown {
		t.Error("expected cancel to clear the countdown")
	}
}

func TestTransitionEndpointErrors(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminCookie(t)

	// Empty roster.
	w := e.do(t, http.MethodPost, "/api/admin/transition", TransitionRequest{Action: contest.ActionNext}, admin)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 with no contestants, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/admin/transition", TransitionRequest{Action: "explode"}, admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown action, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClearStage(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminCookie(t)
	c := e.createContestant(t, "1", "Alpha")

	// Put a contestant on stage and start a transition.
	ctx := context.Background()
	state, _ := e.store.ControlState(ctx)
	state.CurrentContestantID = c.ID
	state.IsJudgingOpen = true
	if err := e.store.SaveControlState(ctx, state); err != nil {
		t.Fatalf("saving control state: %v", err)
	}
	if err := e.orch.Start(ctx, contest.Transition{Remaining: 100, NextContestantID: c.ID}); err != nil {
		t.Fatalf("starting countdown: %v", err)
	}

	// Clearing bypasses the countdown entirely.
	w := e.do(t, http.MethodPost, "/api/admin/stage/clear", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[ControlResponse](t, w)
	if resp.CurrentContestantID != "" || resp.IsCountingDown {
		t.Errorf("expected a blank idle stage, got %+v", resp)
	}
	if !resp.IsJudgingOpen {
		t.Error("expected judging flag to be untouched by the clear")
	}
	if e.orch.Active() {
		t.Error("expected the ticker to be stopped")
	}
}
