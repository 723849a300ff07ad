package trainer

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/haeun/fitcoach-go/internal/domain"
	"github.com/haeun/fitcoach-go/internal/service/ai"
	"go.uber.org/zap"
)

const planSystemPrompt = "You are an AI trainer who programs personalised sessions. " +
	"Plans must account for sex, age, injuries, conditions, medications, and lifestyle. " +
	"Use proven approaches and cue breath, tempo, and intent."

// PlanBuilder generates a structured session plan from profile, evidence,
// and citations. Every failure path lands on the static fallback plan; the
// caller never sees an error.
type PlanBuilder struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewPlanBuilder(gen ai.Generator, logger *zap.Logger) *PlanBuilder {
	return &PlanBuilder{gen: gen, logger: logger}
}

type generatedPlan struct {
	GoalFocus   string            `json:"goalFocus"`
	Modality    string            `json:"modality"`
	DurationMin float64           `json:"durationMin"`
	Exercises   []domain.Exercise `json:"exercises"`
}

func personalizedPlanSchema() map[string]any {
	exerciseSchema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"id", "name", "bodyPart", "modality", "instructions", "equipment",
			"targetSets", "targetReps", "tempo", "restSec", "cues",
			"trackingMetric", "durationMin", "intensityCue", "contraindications",
		},
		"properties": map[string]any{
			"id":           map[string]any{"type": "string"},
			"name":         map[string]any{"type": "string"},
			"bodyPart":     map[string]any{"type": "string"},
			"modality":     map[string]any{"type": "string"},
			"instructions": map[string]any{"type": "string"},
			"equipment":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"targetSets":   map[string]any{"type": "integer"},
			"targetReps": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "integer"},
				"minItems": 1,
				"maxItems": 3,
			},
			"tempo":             map[string]any{"type": "string"},
			"restSec":           map[string]any{"type": "integer"},
			"durationMin":       map[string]any{"type": "number"},
			"intensityCue":      map[string]any{"type": "string"},
			"contraindications": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"cues":              map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"trackingMetric": map[string]any{
				"type": "string",
				"enum": []string{"weight_reps", "duration", "distance", "breath", "custom"},
			},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"goalFocus", "modality", "durationMin", "exercises"},
		"properties": map[string]any{
			"goalFocus":   map[string]any{"type": "string"},
			"modality":    map[string]any{"type": "string"},
			"durationMin": map[string]any{"type": "number"},
			"exercises": map[string]any{
				"type":     "array",
				"minItems": 4,
				"items":    exerciseSchema,
			},
		},
	}
}

// Build returns the generated plan, or the fallback plan when generation
// fails or violates the schema.
func (b *PlanBuilder) Build(ctx context.Context, profile *domain.Profile, cites []domain.Citation, facts []domain.Fact) domain.PlanPayload {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		b.logger.Error("Plan prompt marshal failed, using fallback", zap.Error(err))
		return FallbackPlan(profile)
	}
	factsJSON, _ := json.Marshal(facts)
	citationsJSON, _ := json.Marshal(cites)

	prompt := strings.Join([]string{
		"Profile JSON:",
		string(profileJSON),
		"\nRelevant health facts:",
		string(factsJSON),
		"\nCitations (for awareness, do not invent new IDs):",
		string(citationsJSON),
		"\nOutput JSON matching the schema.",
	}, " ")

	var parsed generatedPlan
	err = b.gen.GenerateStructured(ctx, ai.StructuredRequest{
		SchemaName: "personalized_plan",
		Schema:     personalizedPlanSchema(),
		System:     planSystemPrompt,
		User:       prompt,
	}, &parsed)
	if err != nil {
		b.logger.Warn("Plan generation failed, using fallback", zap.Error(err))
		return FallbackPlan(profile)
	}

	if len(parsed.Exercises) < 4 {
		b.logger.Warn("Plan generation returned too few exercises, using fallback",
			zap.Int("exercises", len(parsed.Exercises)),
		)
		return FallbackPlan(profile)
	}

	payload := domain.PlanPayload{
		GoalFocus:   parsed.GoalFocus,
		Modality:    parsed.Modality,
		DurationMin: int(math.Round(parsed.DurationMin)),
		Exercises:   NormalizeExercises(parsed.Exercises),
	}
	if payload.GoalFocus == "" {
		payload.GoalFocus = profile.Goal
	}
	if payload.Modality == "" {
		payload.Modality = InferModality(profile)
	}
	if payload.DurationMin <= 0 {
		payload.DurationMin = EstimateDuration(profile)
	}
	return payload
}
