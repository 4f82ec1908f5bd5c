package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yadyoyollo/rabopkanean-app/internal/contest"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) UserFromSession(ctx context.Context, sessionID string) (contest.User, error) {
	var u contest.User
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, u.role, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sessionID).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return contest.User{}, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (string, string, error) {
	var id, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE email = ?
	`, email).Scan(&id, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, passwordHash, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (user_id)
		VALUES (?)
		RETURNING id
	`, userID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) ListUsers(ctx context.Context, role string) ([]contest.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, name, role, created_at
		FROM users
		WHERE ? = '' OR role = ?
		ORDER BY created_at, email
	`, role, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []contest.User
	for rows.Next() {
		var u contest.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) CreateUser(ctx context.Context, email, name, passwordHash, role string) (contest.User, error) {
	var u contest.User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, password_hash, role)
		VALUES (?, ?, ?, ?)
		RETURNING id, email, name, role, created_at
	`, email, name, passwordHash, role).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return contest.User{}, ErrDuplicateEmail
	}
	return u, err
}

// DeleteUserCascade removes a user and every score they authored in one
// transaction, so a failed cascade rolls back whole instead of partially.
func (s *SQLiteStore) DeleteUserCascade(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE judge_id = ?`, id); err != nil {
		return fmt.Errorf("deleting scores: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListContestants(ctx context.Context) ([]contest.Contestant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, name, character, image_url, created_at
		FROM contestants
		ORDER BY CAST(number AS INTEGER), number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contestants []contest.Contestant
	for rows.Next() {
		var c contest.Contestant
		if err := rows.Scan(&c.ID, &c.Number, &c.Name, &c.Character, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		contestants = append(contestants, c)
	}
	return contestants, rows.Err()
}

func (s *SQLiteStore) GetContestant(ctx context.Context, id string) (contest.Contestant, error) {
	var c contest.Contestant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, number, name, character, image_url, created_at
		FROM contestants WHERE id = ?
	`, id).Scan(&c.ID, &c.Number, &c.Name, &c.Character, &c.ImageURL, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return contest.Contestant{}, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) CreateContestant(ctx context.Context, number, name, character, imageURL string) (contest.Contestant, error) {
	var c contest.Contestant
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contestants (number, name, character, image_url)
		VALUES (?, ?, ?, ?)
		RETURNING id, number, name, character, image_url, created_at
	`, number, name, character, imageURL).Scan(&c.ID, &c.Number, &c.Name, &c.Character, &c.ImageURL, &c.CreatedAt)
	return c, err
}

// DeleteContestantCascade removes a contestant and every score referencing
// it in one transaction.
func (s *SQLiteStore) DeleteContestantCascade(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE contestant_id = ?`, id); err != nil {
		return fmt.Errorf("deleting scores: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM contestants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// InsertScore enforces the write-once invariant with the primary key on
// (judge_id, contestant_id): a second submission affects zero rows and never
// overwrites the first.
func (s *SQLiteStore) InsertScore(ctx context.Context, score contest.Score) (contest.Score, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO scores
			(judge_id, contestant_id, personality, walking, attire, language, overall, total, keep_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, score.JudgeID, score.ContestantID,
		score.Personality, score.Walking, score.Attire, score.Language, score.Overall,
		score.Total, score.KeepStatus)
	if err != nil {
		return contest.Score{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return contest.Score{}, ErrAlreadySubmitted
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT submitted_at FROM scores WHERE judge_id = ? AND contestant_id = ?
	`, score.JudgeID, score.ContestantID).Scan(&score.SubmittedAt)
	return score, err
}

func (s *SQLiteStore) ListScores(ctx context.Context) ([]contest.Score, error) {
	return s.queryScores(ctx, `
		SELECT judge_id, contestant_id, personality, walking, attire, language, overall, total, keep_status, submitted_at
		FROM scores
		ORDER BY submitted_at
	`)
}

func (s *SQLiteStore) ListJudgeScores(ctx context.Context, judgeID string) ([]contest.Score, error) {
	return s.queryScores(ctx, `
		SELECT judge_id, contestant_id, personality, walking, attire, language, overall, total, keep_status, submitted_at
		FROM scores
		WHERE judge_id = ?
		ORDER BY submitted_at
	`, judgeID)
}

func (s *SQLiteStore) queryScores(ctx context.Context, query string, args ...any) ([]contest.Score, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []contest.Score
	for rows.Next() {
		var sc contest.Score
		if err := rows.Scan(&sc.JudgeID, &sc.ContestantID,
			&sc.Personality, &sc.Walking, &sc.Attire, &sc.Language, &sc.Overall,
			&sc.Total, &sc.KeepStatus, &sc.SubmittedAt); err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// ControlState reads the single control record, creating it with defaults on
// first read.
func (s *SQLiteStore) ControlState(ctx context.Context) (contest.ControlState, error) {
	if _, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO control_state (id) VALUES (1)
	`); err != nil {
		return contest.ControlState{}, err
	}

	var (
		state         contest.ControlState
		currentID     sql.NullString
		nextID        sql.NullString
		countingDown  bool
		countdownVal  int
		judgingChange bool
		summaryChange bool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT current_contestant_id, video_url, video_playing, is_judging_open, show_summary,
		       counting_down, countdown_value, next_contestant_id, judging_open_pending, show_summary_pending
		FROM control_state WHERE id = 1
	`).Scan(&currentID, &state.VideoURL, &state.VideoPlaying, &state.IsJudgingOpen, &state.ShowSummary,
		&countingDown, &countdownVal, &nextID, &judgingChange, &summaryChange)
	if err != nil {
		return contest.ControlState{}, err
	}

	state.CurrentContestantID = currentID.String
	if countingDown {
		state.Countdown = &contest.Transition{
			Remaining:        countdownVal,
			NextContestantID: nextID.String,
			JudgingOpen:      judgingChange,
			ShowSummary:      summaryChange,
		}
	}
	return state, nil
}

// SaveControlState replaces the whole control record in a single UPDATE, so a
// logical transition is never observable half-written.
func (s *SQLiteStore) SaveControlState(ctx context.Context, state contest.ControlState) error {
	var (
		countingDown  bool
		countdownVal  int
		nextID        sql.NullString
		judgingChange bool
		summaryChange bool
	)
	if state.Countdown != nil {
		countingDown = true
		countdownVal = state.Countdown.Remaining
		nextID = nullString(state.Countdown.NextContestantID)
		judgingChange = state.Countdown.JudgingOpen
		summaryChange = state.Countdown.ShowSummary
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE control_state SET
			current_contestant_id = ?,
			video_url = ?,
			video_playing = ?,
			is_judging_open = ?,
			show_summary = ?,
			counting_down = ?,
			countdown_value = ?,
			next_contestant_id = ?,
			judging_open_pending = ?,
			show_summary_pending = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = 1
	`, nullString(state.CurrentContestantID), state.VideoURL, state.VideoPlaying,
		state.IsJudgingOpen, state.ShowSummary,
		countingDown, countdownVal, nextID, judgingChange, summaryChange)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap contest.Snapshot) error {
	data, err := json.Marshal(snap.Results)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO result_snapshots (id, data, generated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, generated_at = excluded.generated_at
	`, string(data), snap.GeneratedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) Snapshot(ctx context.Context) (contest.Snapshot, error) {
	var (
		data        string
		generatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT data, generated_at FROM result_snapshots WHERE id = 1
	`).Scan(&data, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return contest.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return contest.Snapshot{}, err
	}

	var snap contest.Snapshot
	if err := json.Unmarshal([]byte(data), &snap.Results); err != nil {
		return contest.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	snap.GeneratedAt, _ = time.Parse(time.RFC3339Nano, generatedAt)
	return snap, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
