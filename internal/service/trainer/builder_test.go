package trainer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/haeun/fitcoach-go/internal/domain"
	"github.com/haeun/fitcoach-go/internal/service/ai"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	payload  string
	err      error
	requests []ai.StructuredRequest
}

func (f *fakeGenerator) GenerateStructured(_ context.Context, req ai.StructuredRequest, dest any) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.payload), dest)
}

func testProfile() *domain.Profile {
	return &domain.Profile{
		Name:          "Haeun Kim",
		Age:           "38",
		Goal:          "pain-free running",
		ActivityLevel: domain.ActivityModerate,
		TimeAvailable: []string{"45min"},
	}
}

func TestBuildFallsBackOnModelError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	builder := NewPlanBuilder(gen, zap.NewNop())

	payload := builder.Build(context.Background(), testProfile(), nil, nil)

	if len(payload.Exercises) < 4 {
		t.Fatalf("fallback plan must have at least 4 exercises, got %d", len(payload.Exercises))
	}
	if payload.DurationMin < 15 || payload.DurationMin > 75 {
		t.Errorf("durationMin = %d, want within [15, 75]", payload.DurationMin)
	}
	if payload.GoalFocus != "pain-free running" {
		t.Errorf("goalFocus = %q", payload.GoalFocus)
	}
	if payload.Modality != "run + strength support" {
		t.Errorf("modality = %q", payload.Modality)
	}
	for i, exercise := range payload.Exercises {
		if exercise.ID == "" || exercise.Name == "" || len(exercise.TargetReps) == 0 {
			t.Errorf("fallback exercise %d incomplete: %+v", i, exercise)
		}
	}
}

func TestBuildFallsBackOnTooFewExercises(t *testing.T) {
	gen := &fakeGenerator{payload: `{
		"goalFocus": "x", "modality": "y", "durationMin": 30,
		"exercises": [{"name": "Only one"}]
	}`}
	builder := NewPlanBuilder(gen, zap.NewNop())

	payload := builder.Build(context.Background(), testProfile(), nil, nil)
	if len(payload.Exercises) != 4 {
		t.Errorf("expected the 4-exercise fallback, got %d exercises", len(payload.Exercises))
	}
}

func TestBuildNormalizesGeneratedPlan(t *testing.T) {
	gen := &fakeGenerator{payload: `{
		"goalFocus": "",
		"modality": "",
		"durationMin": 0,
		"exercises": [
			{"name": "Goblet Squat", "targetSets": 3, "targetReps": [8]},
			{"name": "Row"},
			{"name": "Plank", "trackingMetric": "duration"},
			{"name": "Carry"}
		]
	}`}
	builder := NewPlanBuilder(gen, zap.NewNop())

	payload := builder.Build(context.Background(), testProfile(), nil, nil)

	if payload.GoalFocus != "pain-free running" {
		t.Errorf("empty goalFocus should default to profile goal, got %q", payload.GoalFocus)
	}
	if payload.Modality != "run + strength support" {
		t.Errorf("empty modality should be inferred, got %q", payload.Modality)
	}
	if payload.DurationMin != 45 {
		t.Errorf("zero duration should be estimated from time slot, got %d", payload.DurationMin)
	}
	for i, exercise := range payload.Exercises {
		if exercise.ID == "" {
			t.Errorf("exercise %d missing generated id", i)
		}
		if len(exercise.TargetReps) == 0 {
			t.Errorf("exercise %d missing default reps", i)
		}
	}
	if payload.Exercises[2].TargetReps[0] != 1 {
		t.Errorf("duration-tracked exercise reps = %v, want [1]", payload.Exercises[2].TargetReps)
	}
}

func TestBuildRequestsPlanSchema(t *testing.T) {
	gen := &fakeGenerator{payload: `{
		"goalFocus": "g", "modality": "m", "durationMin": 40,
		"exercises": [{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"}]
	}`}
	builder := NewPlanBuilder(gen, zap.NewNop())
	builder.Build(context.Background(), testProfile(), nil, nil)

	if len(gen.requests) != 1 {
		t.Fatalf("expected 1 generation request, got %d", len(gen.requests))
	}
	req := gen.requests[0]
	if req.SchemaName != "personalized_plan" {
		t.Errorf("schema name = %q", req.SchemaName)
	}
	if req.WebSearch {
		t.Error("plan generation must not enable web search")
	}
}
