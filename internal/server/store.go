package server

import (
	"context"
	"errors"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadySubmitted = errors.New("score already submitted for this contestant")
	ErrDuplicateEmail   = errors.New("email already registered")
)

type Store interface {
	// Sessions and users.
	UserFromSession(ctx context.Context, sessionID string) (contest.User, error)
	UserByEmail(ctx context.Context, email string) (id, passwordHash string, err error)
	CreateSession(ctx context.Context, userID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context, role string) ([]contest.User, error)
	CreateUser(ctx context.Context, email, name, passwordHash, role string) (contest.User, error)
	DeleteUserCascade(ctx context.Context, id string) error

	// Contestants, ordered by numeric display number.
	ListContestants(ctx context.Context) ([]contest.Contestant, error)
	GetContestant(ctx context.Context, id string) (contest.Contestant, error)
	CreateContestant(ctx context.Context, number, name, character, imageURL string) (contest.Contestant, error)
	DeleteContestantCascade(ctx context.Context, id string) error

	// Scores. InsertScore is write-once per (judge, contestant) pair and
	// returns ErrAlreadySubmitted without touching the existing record.
	InsertScore(ctx context.Context, score contest.Score) (contest.Score, error)
	ListScores(ctx context.Context) ([]contest.Score, error)
	ListJudgeScores(ctx context.Context, judgeID string) ([]contest.Score, error)

	// Control state: the document is created lazily with defaults on first
	// read; SaveControlState replaces the whole record in one write.
	ControlState(ctx context.Context) (contest.ControlState, error)
	SaveControlState(ctx context.Context, state contest.ControlState) error

	// Aggregate result snapshot, one record, overwritten on each run.
	SaveSnapshot(ctx context.Context, snap contest.Snapshot) error
	Snapshot(ctx context.Context) (contest.Snapshot, error)
}
