package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Contest Judging API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for live contest judging: shared stage state, judge scoring, aggregated results.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with email and password. Sets contest_session cookie. Role comes from the user record.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Clears the session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/state")
	getState.SetSummary("Get control state")
	getState.SetDescription("Returns the shared live-presentation state. Audience-readable.")
	getState.AddRespStructure(ControlResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of control-state and summary updates. Audience-readable.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/contestants
	getContestants, _ := r.NewOperationContext(http.MethodGet, "/api/contestants")
	getContestants.SetSummary("List contestants")
	getContestants.SetDescription("Contestants ordered by display number. Audience-readable.")
	getContestants.AddRespStructure([]ContestantInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getContestants)

	// GET /api/results
	getResults, _ := r.NewOperationContext(http.MethodGet, "/api/results")
	getResults.SetSummary("Aggregated results")
	getResults.SetDescription("Latest persisted aggregate snapshot. 404 until the admin has aggregated once.")
	getResults.AddRespStructure(SnapshotResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getResults)

	// POST /api/judge/scores
	postScore, _ := r.NewOperationContext(http.MethodPost, "/api/judge/scores")
	postScore.SetSummary("Submit score")
	postScore.SetDescription("Write-once per (judge, contestant). Requires judge role and open judging.")
	postScore.AddReqStructure(ScoreRequest{})
	postScore.AddRespStructure(ScoreResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postScore)

	// GET /api/judge/scores
	getScores, _ := r.NewOperationContext(http.MethodGet, "/api/judge/scores")
	getScores.SetSummary("Own submitted scores")
	getScores.AddRespStructure([]ScoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getScores)

	// POST /api/admin/transition
	postTransition, _ := r.NewOperationContext(http.MethodPost, "/api/admin/transition")
	postTransition.SetSummary("Start stage transition")
	postTransition.SetDescription("Starts the server-side countdown toward a new stage state. 409 while a transition is in flight.")
	postTransition.AddReqStructure(TransitionRequest{})
	postTransition.AddRespStructure(ControlResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTransition.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postTransition.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postTransition)

	// POST /api/admin/transition/cancel
	postCancel, _ := r.NewOperationContext(http.MethodPost, "/api/admin/transition/cancel")
	postCancel.SetSummary("Cancel transition")
	postCancel.SetDescription("Discards an in-flight countdown; committed values stay unchanged.")
	postCancel.AddRespStructure(ControlResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postCancel)

	// POST /api/admin/stage/clear
	postClear, _ := r.NewOperationContext(http.MethodPost, "/api/admin/stage/clear")
	postClear.SetSummary("Clear stage")
	postClear.SetDescription("Sets no current contestant immediately, bypassing the countdown.")
	postClear.AddRespStructure(ControlResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postClear)

	// POST /api/admin/video
	postVideo, _ := r.NewOperationContext(http.MethodPost, "/api/admin/video")
	postVideo.SetSummary("Set video state")
	postVideo.AddReqStructure(VideoRequest{})
	postVideo.AddRespStructure(ControlResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postVideo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postVideo)

	// POST /api/admin/aggregate
	postAggregate, _ := r.NewOperationContext(http.MethodPost, "/api/admin/aggregate")
	postAggregate.SetSummary("Aggregate scores")
	postAggregate.SetDescription("Recomputes standings from all scores and overwrites the persisted snapshot.")
	postAggregate.AddRespStructure(SnapshotResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postAggregate)

	// GET /api/admin/contestants
	listContestantsOp, _ := r.NewOperationContext(http.MethodGet, "/api/admin/contestants")
	listContestantsOp.SetSummary("List contestants (admin)")
	listContestantsOp.AddRespStructure([]ContestantInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listContestantsOp)

	// POST /api/admin/contestants
	createContestant, _ := r.NewOperationContext(http.MethodPost, "/api/admin/contestants")
	createContestant.SetSummary("Create contestant")
	createContestant.AddReqStructure(ContestantRequest{})
	createContestant.AddRespStructure(ContestantInfo{}, openapi.WithHTTPStatus(http.StatusCreated))
	createContestant.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createContestant)

	// DELETE /api/admin/contestants/{id}
	deleteContestant, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/contestants/{id}")
	deleteContestant.SetSummary("Delete contestant")
	deleteContestant.SetDescription("Deletes the contestant and every score referencing it, in one transaction.")
	deleteContestant.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteContestant.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteContestant)

	// GET /api/admin/judges
	listJudges, _ := r.NewOperationContext(http.MethodGet, "/api/admin/judges")
	listJudges.SetSummary("List judges")
	listJudges.AddRespStructure([]MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listJudges)

	// POST /api/admin/judges
	createJudge, _ := r.NewOperationContext(http.MethodPost, "/api/admin/judges")
	createJudge.SetSummary("Create judge")
	createJudge.AddReqStructure(JudgeRequest{})
	createJudge.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createJudge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(createJudge)

	// DELETE /api/admin/judges/{id}
	deleteJudge, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/judges/{id}")
	deleteJudge.SetSummary("Delete judge")
	deleteJudge.SetDescription("Deletes the judge and every score they authored, in one transaction.")
	deleteJudge.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteJudge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteJudge)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
