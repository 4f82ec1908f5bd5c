package server

import (
	"net/http"
	"testing"
)

func scoreBody(contestantID string, v int) ScoreRequest {
	return ScoreRequest{
		ContestantID: contestantID,
		Personality:  v,
		Walking:      v,
		Attire:       v,
		Language:     v,
		Overall:      v,
		KeepStatus:   "keep",
	}
}

func TestSubmitScore(t *testing.T) {
	e := newTestEnv(t)
	judge := e.judgeCookie(t, "judge@example.com", "Judge")
	c := e.createContestant(t, "1", "Alpha")
	e.openJudging(t)

	w := e.do(t, http.MethodPost, "/api/judge/scores", scoreBody(c.ID, 10), judge)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[ScoreResponse](t, w)
	if resp.Total != 50 {
		t.Errorf("expected total 50, got %d", resp.Total)
	}
	if resp.SubmittedAt == "" {
		t.Error("expected submittedAt to be set")
	}
}

func TestSubmitScoreWriteOnce(t *testing.T) {
	e := newTestEnv(t)
	judge := e.judgeCookie(t, "judge@example.com", "Judge")
	c := e.createContestant(t, "1", "Alpha")
	e.openJudging(t)

	w := e.do(t, http.MethodPost, "/api/judge/scores", scoreBody(c.ID, 10), judge)
	if w.Code != http.StatusCreated {
		t.Fatalf("first submission: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Second submission for the same contestant is rejected and the first
	// record survives unchanged.
	w = e.do(t, http.MethodPost, "/api/judge/scores", scoreBody(c.ID, 3), judge)
	if w.Code != http.StatusConflict {
		t.Fatalf("resubmission: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/api/judge/scores", nil, judge)
	if w.Code != http.StatusOK {
		t.Fatalf("listing scores: expected 200, got %d", w.Code)
	}
	scores := decode[[]ScoreResponse](t, w)
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	if scores[0].Total != 50 {
		t.Errorf("expected original total 50 to survive, got %d", scores[0].Total)
	}

	// A different judge can still score the same contestant.
	other := e.judgeCookie(t, "other@example.com", "Other")
	w = e.do(t, http.MethodPost, "/api/judge/scores", scoreBody(c.ID, 5), other)
	if w.Code != http.StatusCreated {
		t.Fatalf("other judge: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitScoreValidation(t *testing.T) {
	e := newTestEnv(t)
	judge := e.judgeCookie(t, "judge@example.com", "Judge")
	c := e.createContestant(t, "1", "Alpha")
	e.openJudging(t)

	tests := []struct {
		name string
		body ScoreRequest
		want int
	}{
		{
			name: "missing contestant id",
			body: scoreBody("", 10),
			want: http.StatusBadRequest,
		},
		{
			name: "unscored category",
			body: ScoreRequest{ContestantID: c.ID, Personality: 10, Walking: 10, Attire: 10, Language: 10, KeepStatus: "keep"},
			want: http.StatusBadRequest,
		},
		{
			name: "score above maximum",
			body: scoreBody(c.ID, 16),
			want: http.StatusBadRequest,
		},
		{
			name: "bad keep status",
			body: func() ScoreRequest { b := scoreBody(c.ID, 10); b.KeepStatus = "maybe"; return b }(),
			want: http.StatusBadRequest,
		},
		{
			name: "unknown contestant",
			body: scoreBody("does-not-exist", 10),
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/judge/scores", tt.body, judge)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	// Nothing was recorded.
	w := e.do(t, http.MethodGet, "/api/judge/scores", nil, judge)
	if scores := decode[[]ScoreResponse](t, w); len(scores) != 0 {
		t.Errorf("expected no recorded scores, got %d", len(scores))
	}
}

func TestSubmitScoreJudgingClosed(t *testing.T) {
	e := newTestEnv(t)
	judge := e.judgeCookie(t, "judge@example.com", "Judge")
	c := e.createContestant(t, "1", "Alpha")

	w := e.do(t, http.MethodPost, "/api/judge/scores", scoreBody(c.ID, 10), judge)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 while judging closed, got %d: %s", w.Code, w.Body.String())
	}
}
