package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/haeun/fitcoach-go/pkg/errors"

	"github.com/haeun/fitcoach-go/internal/domain"
	"go.uber.org/zap"
)

// CreateSession persists a freshly generated session in the "generated"
// state.
func (s *PostgresService) CreateSession(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	if session.Status == "" {
		session.Status = domain.SessionGenerated
	}

	planJSON, err := json.Marshal(session.Plan)
	if err != nil {
		return apperrors.NewServiceError("session plan marshal failed", "postgres", "create_session", err)
	}
	factsJSON, err := json.Marshal(session.HealthFacts)
	if err != nil {
		return apperrors.NewServiceError("session facts marshal failed", "postgres", "create_session", err)
	}
	citationsJSON, err := json.Marshal(session.Citations)
	if err != nil {
		return apperrors.NewServiceError("session citations marshal failed", "postgres", "create_session", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workout_sessions (
			id, user_id, goal, modality, duration_min, status,
			plan, health_facts, citations, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		session.ID,
		session.UserID,
		session.Goal,
		session.Modality,
		session.DurationMin,
		string(session.Status),
		planJSON,
		factsJSON,
		citationsJSON,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewServiceError("session insert failed", "postgres", "create_session", err)
	}

	s.logger.Debug("Session created",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
	)
	return nil
}

// GetSession returns the session owned by userID, or (nil, nil) when no
// such session exists for that user. Ownership is part of the lookup so a
// foreign session is indistinguishable from a missing one.
func (s *PostgresService) GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	session := &domain.Session{}
	var status string
	var planJSON, factsJSON, citationsJSON []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, goal, modality, duration_min, status,
		       plan, health_facts, citations, created_at, updated_at
		FROM workout_sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(
		&session.ID,
		&session.UserID,
		&session.Goal,
		&session.Modality,
		&session.DurationMin,
		&status,
		&planJSON,
		&factsJSON,
		&citationsJSON,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewServiceError("session lookup failed", "postgres", "get_session", err)
	}

	session.Status = domain.SessionStatus(status)
	if err := json.Unmarshal(planJSON, &session.Plan); err != nil {
		return nil, apperrors.NewServiceError("session plan decode failed", "postgres", "get_session", err)
	}
	if err := json.Unmarshal(factsJSON, &session.HealthFacts); err != nil {
		return nil, apperrors.NewServiceError("session facts decode failed", "postgres", "get_session", err)
	}
	if err := json.Unmarshal(citationsJSON, &session.Citations); err != nil {
		return nil, apperrors.NewServiceError("session citations decode failed", "postgres", "get_session", err)
	}
	return session, nil
}

// GetSessionSets returns all logged sets for a session ordered by exercise
// and set index.
func (s *PostgresService) GetSessionSets(ctx context.Context, sessionID string) ([]domain.SetLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, exercise_id, set_index, weight_kg, reps, rpe,
		       duration_sec, distance_m, notes, completed_at
		FROM workout_sets WHERE session_id = $1
		ORDER BY exercise_id, set_index`, sessionID)
	if err != nil {
		return nil, apperrors.NewServiceError("set logs lookup failed", "postgres", "get_session_sets", err)
	}
	defer rows.Close()

	var sets []domain.SetLog
	for rows.Next() {
		var set domain.SetLog
		if err := rows.Scan(
			&set.SessionID,
			&set.ExerciseID,
			&set.SetIndex,
			&set.WeightKg,
			&set.Reps,
			&set.RPE,
			&set.DurationSec,
			&set.DistanceM,
			&set.Notes,
			&set.CompletedAt,
		); err != nil {
			return nil, apperrors.NewServiceError("set log scan failed", "postgres", "get_session_sets", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewServiceError("set logs iteration failed", "postgres", "get_session_sets", err)
	}
	return sets, nil
}

// LogSet upserts one set record and flips the session into in-progress on
// the first logged set.
func (s *PostgresService) LogSet(ctx context.Context, set *domain.SetLog) error {
	if set.CompletedAt.IsZero() {
		set.CompletedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewServiceError("set log tx begin failed", "postgres", "log_set", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workout_sets (
			session_id, exercise_id, set_index, weight_kg, reps, rpe,
			duration_sec, distance_m, notes, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id, exercise_id, set_index) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			reps = EXCLUDED.reps,
			rpe = EXCLUDED.rpe,
			duration_sec = EXCLUDED.duration_sec,
			distance_m = EXCLUDED.distance_m,
			notes = EXCLUDED.notes,
			completed_at = EXCLUDED.completed_at`,
		set.SessionID,
		set.ExerciseID,
		set.SetIndex,
		set.WeightKg,
		set.Reps,
		set.RPE,
		set.DurationSec,
		set.DistanceM,
		set.Notes,
		set.CompletedAt,
	)
	if err != nil {
		return apperrors.NewServiceError("set log upsert failed", "postgres", "log_set", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE workout_sessions SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(domain.SessionInProgress), set.SessionID, string(domain.SessionGenerated),
	)
	if err != nil {
		return apperrors.NewServiceError("session status update failed", "postgres", "log_set", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewServiceError("set log tx commit failed", "postgres", "log_set", err)
	}
	return nil
}

// CompleteSession marks the session completed. Completing an already
// completed session is a no-op.
func (s *PostgresService) CompleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workout_sessions SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(domain.SessionCompleted), sessionID,
	)
	if err != nil {
		return apperrors.NewServiceError("session complete failed", "postgres", "complete_session", err)
	}
	return nil
}

// InsertFeedback appends free-text feedback for a session.
func (s *PostgresService) InsertFeedback(ctx context.Context, feedback *domain.Feedback) error {
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_feedback (session_id, user_id, feedback, created_at)
		VALUES ($1, $2, $3, $4)`,
		feedback.SessionID, feedback.UserID, feedback.Text, feedback.CreatedAt,
	)
	if err != nil {
		return apperrors.NewServiceError("feedback insert failed", "postgres", "insert_feedback", err)
	}
	return nil
}
