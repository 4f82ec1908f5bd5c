package contest

import "errors"

var ErrNoContestants = errors.New("no contestants to transition to")

// Transition is a pending change-set: the values that take effect once the
// countdown reaches zero.
type Transition struct {
	Remaining        int
	NextContestantID string
	JudgingOpen      bool
	ShowSummary      bool
}

// ControlState is the single shared record describing the live presentation.
// A nil Countdown means the state is idle; a non-nil Countdown carries the
// pending transition, so "idle with leftover pending fields" cannot be
// represented.
type ControlState struct {
	CurrentContestantID string
	VideoURL            string
	VideoPlaying        bool
	IsJudgingOpen       bool
	ShowSummary         bool
	Countdown           *Transition
}

func (s ControlState) CountingDown() bool { return s.Countdown != nil }

// Commit returns the state after the in-flight transition completes: the
// pending triple becomes current and the countdown is cleared. Committing an
// idle state is a no-op.
func (s ControlState) Commit() ControlState {
	if s.Countdown == nil {
		return s
	}
	s.CurrentContestantID = s.Countdown.NextContestantID
	s.IsJudgingOpen = s.Countdown.JudgingOpen
	s.ShowSummary = s.Countdown.ShowSummary
	s.Countdown = nil
	return s
}

// Cancel discards an in-flight transition, keeping the committed values.
func (s ControlState) Cancel() ControlState {
	s.Countdown = nil
	return s
}

// Action is an admin transition request.
type Action string

const (
	ActionNext         Action = "next"
	ActionPrevious     Action = "previous"
	ActionOpenJudging  Action = "open-judging"
	ActionCloseJudging Action = "close-judging"
	ActionShowSummary  Action = "show-summary"
	ActionHideSummary  Action = "hide-summary"
)

var errUnknownAction = errors.New("unknown transition action")

// PlanTransition computes the pending change-set for an admin action.
// Navigation wraps around the contestant list (ordered as given) and
// preserves the current flags; flag toggles keep the current contestant and
// flip exactly one flag.
func PlanTransition(s ControlState, contestants []Contestant, action Action, seconds int) (Transition, error) {
	t := Transition{
		Remaining:        seconds,
		NextContestantID: s.CurrentContestantID,
		JudgingOpen:      s.IsJudgingOpen,
		ShowSummary:      s.ShowSummary,
	}

	switch action {
	case ActionNext, ActionPrevious:
		if len(contestants) == 0 {
			return Transition{}, ErrNoContestants
		}
		cur := -1
		for i, c := range contestants {
			if c.ID == s.CurrentContestantID {
				cur = i
				break
			}
		}
		n := len(contestants)
		if action == ActionNext {
			t.NextContestantID = contestants[(cur+1)%n].ID
		} else if cur <= 0 {
			// Blank stage or first contestant: previous wraps to the end.
			t.NextContestantID = contestants[n-1].ID
		} else {
			t.NextContestantID = contestants[cur-1].ID
		}
	case ActionOpenJudging:
		t.JudgingOpen = true
	case ActionCloseJudging:
		t.JudgingOpen = false
	case ActionShowSummary:
		t.ShowSummary = true
	case ActionHideSummary:
		t.ShowSummary = false
	default:
		return Transition{}, errUnknownAction
	}

	return t, nil
}
