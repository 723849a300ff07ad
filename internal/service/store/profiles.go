package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "github.com/haeun/fitcoach-go/pkg/errors"

	"github.com/haeun/fitcoach-go/internal/domain"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// SaveOnboarding upserts the user's profile snapshot. Saving again
// replaces the previous snapshot wholesale.
func (s *PostgresService) SaveOnboarding(ctx context.Context, record *domain.Onboarding) error {
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO onboarding (
			user_id, name, age, gender, goal, activity_level, time_available,
			injuries, conditions, medications, smoking, alcohol, track_period, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			goal = EXCLUDED.goal,
			activity_level = EXCLUDED.activity_level,
			time_available = EXCLUDED.time_available,
			injuries = EXCLUDED.injuries,
			conditions = EXCLUDED.conditions,
			medications = EXCLUDED.medications,
			smoking = EXCLUDED.smoking,
			alcohol = EXCLUDED.alcohol,
			track_period = EXCLUDED.track_period,
			completed_at = EXCLUDED.completed_at`,
		record.UserID,
		record.Profile.Name,
		record.Profile.Age,
		string(record.Profile.Gender),
		record.Profile.Goal,
		string(record.Profile.ActivityLevel),
		pq.StringArray(record.Profile.TimeAvailable),
		pq.StringArray(record.Profile.Injuries),
		pq.StringArray(record.Profile.Conditions),
		record.Profile.Medications,
		string(record.Profile.Smoking),
		string(record.Profile.Alcohol),
		record.TrackPeriod,
		record.CompletedAt,
	)
	if err != nil {
		return apperrors.NewServiceError("onboarding save failed", "postgres", "save_onboarding", err)
	}

	s.logger.Debug("Onboarding saved", zap.String("user_id", record.UserID))
	return nil
}

// GetOnboarding returns the stored profile, or (nil, nil) when the user
// has not onboarded.
func (s *PostgresService) GetOnboarding(ctx context.Context, userID string) (*domain.Onboarding, error) {
	record := &domain.Onboarding{UserID: userID}
	var timeAvailable, injuries, conditions pq.StringArray
	var gender, activityLevel, smoking, alcohol string

	err := s.db.QueryRowContext(ctx, `
		SELECT name, age, gender, goal, activity_level, time_available,
		       injuries, conditions, medications, smoking, alcohol,
		       track_period, completed_at
		FROM onboarding WHERE user_id = $1`, userID,
	).Scan(
		&record.Profile.Name,
		&record.Profile.Age,
		&gender,
		&record.Profile.Goal,
		&activityLevel,
		&timeAvailable,
		&injuries,
		&conditions,
		&record.Profile.Medications,
		&smoking,
		&alcohol,
		&record.TrackPeriod,
		&record.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewServiceError("onboarding lookup failed", "postgres", "get_onboarding", err)
	}

	record.Profile.Gender = domain.Gender(gender)
	record.Profile.ActivityLevel = domain.ActivityLevel(activityLevel)
	record.Profile.Smoking = domain.SmokingStatus(smoking)
	record.Profile.Alcohol = domain.AlcoholStatus(alcohol)
	record.Profile.TimeAvailable = []string(timeAvailable)
	record.Profile.Injuries = []string(injuries)
	record.Profile.Conditions = []string(conditions)
	return record, nil
}

// DeleteOnboarding removes the profile. Deleting a missing profile is not
// an error.
func (s *PostgresService) DeleteOnboarding(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM onboarding WHERE user_id = $1`, userID)
	if err != nil {
		return apperrors.NewServiceError("onboarding delete failed", "postgres", "delete_onboarding", err)
	}
	return nil
}

// HasCompletedOnboarding reports whether a profile row exists.
func (s *PostgresService) HasCompletedOnboarding(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM onboarding WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, apperrors.NewServiceError("onboarding status lookup failed", "postgres", "onboarding_status", err)
	}
	return exists, nil
}
