package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

// JudgeRequest is the admin create body for a judge (or another admin)
// account.
type JudgeRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func handleAdminListJudges(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.ListUsers(r.Context(), contest.RoleJudge)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]MeResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, MeResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAdminCreateJudge(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JudgeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.Name = strings.TrimSpace(req.Name)
		if req.Role == "" {
			req.Role = contest.RoleJudge
		}
		if req.Email == "" || req.Name == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email, name and password are required")
			return
		}
		if len(req.Password) < 6 {
			writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}
		if req.Role != contest.RoleJudge && req.Role != contest.RoleAdmin {
			writeError(w, http.StatusBadRequest, "role must be \"judge\" or \"admin\"")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		u, err := store.CreateUser(r.Context(), req.Email, req.Name, string(hash), req.Role)
		if errors.Is(err, ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, MeResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	}
}

// handleAdminDeleteJudge removes a judge account and, in the same
// transaction, every score they authored.
func handleAdminDeleteJudge(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == userFrom(r).ID {
			writeError(w, http.StatusConflict, "cannot delete your own account")
			return
		}

		err := store.DeleteUserCascade(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "judge not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "cascade delete failed, safe to retry")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
