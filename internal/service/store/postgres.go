package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/haeun/fitcoach-go/pkg/errors"

	"github.com/haeun/fitcoach-go/internal/config"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresService owns the database handle and all persistence for
// onboarding, sessions, set logs, and feedback.
type PostgresService struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresService(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresService, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.NewServiceError("postgres open failed", "postgres", "open", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewServiceError("postgres ping failed", "postgres", "ping", err)
	}

	svc := &PostgresService{db: db, logger: logger}
	if err := svc.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Postgres connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)
	return svc, nil
}

func (s *PostgresService) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables on first boot. Idempotent.
func (s *PostgresService) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS onboarding (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			age TEXT NOT NULL,
			gender TEXT NOT NULL DEFAULT '',
			goal TEXT NOT NULL,
			activity_level TEXT NOT NULL DEFAULT '',
			time_available TEXT[] NOT NULL DEFAULT '{}',
			injuries TEXT[] NOT NULL DEFAULT '{}',
			conditions TEXT[] NOT NULL DEFAULT '{}',
			medications TEXT NOT NULL DEFAULT '',
			smoking TEXT NOT NULL DEFAULT '',
			alcohol TEXT NOT NULL DEFAULT '',
			track_period BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS workout_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			goal TEXT NOT NULL,
			modality TEXT NOT NULL,
			duration_min INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'generated',
			plan JSONB NOT NULL,
			health_facts JSONB NOT NULL DEFAULT '[]',
			citations JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_workout_sessions_user ON workout_sessions (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS workout_sets (
			session_id TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
			exercise_id TEXT NOT NULL,
			set_index INTEGER NOT NULL,
			weight_kg DOUBLE PRECISION,
			reps INTEGER,
			rpe DOUBLE PRECISION,
			duration_sec INTEGER,
			distance_m DOUBLE PRECISION,
			notes TEXT NOT NULL DEFAULT '',
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, exercise_id, set_index)
		)`,
		`CREATE TABLE IF NOT EXISTS session_feedback (
			session_id TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			feedback TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewServiceError("schema bootstrap failed", "postgres", "ensure_schema", err)
		}
	}
	return nil
}
