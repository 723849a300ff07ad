package trainer

import (
	"context"

	apperrors "github.com/haeun/fitcoach-go/pkg/errors"

	"github.com/haeun/fitcoach-go/internal/domain"
	"go.uber.org/zap"
)

// EvidenceProvider is the citation half of the pipeline.
type EvidenceProvider interface {
	Search(ctx context.Context, profile *domain.Profile) []domain.Citation
	Distill(ctx context.Context, profile *domain.Profile, cites []domain.Citation) []domain.Fact
}

// PlanSource turns profile plus evidence into a session plan. It never
// fails; degraded paths return the fallback plan.
type PlanSource interface {
	Build(ctx context.Context, profile *domain.Profile, cites []domain.Citation, facts []domain.Fact) domain.PlanPayload
}

// ProfileSource loads the stored onboarding record for a user. A missing
// record is (nil, nil).
type ProfileSource interface {
	GetOnboarding(ctx context.Context, userID string) (*domain.Onboarding, error)
}

// Service orchestrates the full generation pipeline: load profile, gather
// and distill evidence, build the plan.
type Service struct {
	evidence EvidenceProvider
	plans    PlanSource
	profiles ProfileSource
	logger   *zap.Logger
}

func NewService(evidence EvidenceProvider, plans PlanSource, profiles ProfileSource, logger *zap.Logger) *Service {
	return &Service{
		evidence: evidence,
		plans:    plans,
		profiles: profiles,
		logger:   logger,
	}
}

// GeneratePlanAndInsights runs the pipeline for one user. The only error
// is a missing onboarding record; evidence and plan stages degrade
// internally instead of failing.
func (s *Service) GeneratePlanAndInsights(ctx context.Context, userID string) (*domain.PlanInsights, error) {
	onboarding, err := s.profiles.GetOnboarding(ctx, userID)
	if err != nil {
		return nil, err
	}
	if onboarding == nil {
		return nil, apperrors.NewNotFoundError("onboarding data missing", "onboarding")
	}
	profile := &onboarding.Profile

	cites := s.evidence.Search(ctx, profile)
	facts := s.evidence.Distill(ctx, profile, cites)
	payload := s.plans.Build(ctx, profile, cites, facts)

	s.logger.Info("Plan generated",
		zap.String("user_id", userID),
		zap.String("goal", payload.GoalFocus),
		zap.Int("duration_min", payload.DurationMin),
		zap.Int("exercises", len(payload.Exercises)),
		zap.Int("citations", len(cites)),
		zap.Int("health_facts", len(facts)),
	)

	return &domain.PlanInsights{
		Goal:        payload.GoalFocus,
		Modality:    payload.Modality,
		DurationMin: payload.DurationMin,
		Plan:        payload.Exercises,
		HealthFacts: facts,
		Citations:   cites,
	}, nil
}
