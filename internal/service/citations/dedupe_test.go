package citations

import (
	"context"
	"testing"
	"time"

	"github.com/haeun/fitcoach-go/internal/domain"
)

func TestDedupePrefersDOIOverTitle(t *testing.T) {
	input := []domain.Citation{
		{ID: "pubmed:1", Title: "Strength training in older adults", DOI: "10.1/abc"},
		{ID: "semantic:2", Title: "A completely different title", DOI: "10.1/ABC"},
		{ID: "semantic:3", Title: "strength training in older adults"},
	}

	out := Dedupe(input)
	if len(out) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(out))
	}
	if out[0].ID != "pubmed:1" {
		t.Errorf("first occurrence should win, got %s", out[0].ID)
	}
	if out[1].ID != "semantic:3" {
		t.Errorf("DOI-less citation keyed by title should survive, got %s", out[1].ID)
	}
}

func TestDedupeFallsBackToID(t *testing.T) {
	input := []domain.Citation{
		{ID: "openai:x"},
		{ID: "openai:x"},
		{ID: "openai:y"},
	}

	out := Dedupe(input)
	if len(out) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(out))
	}
}

func TestDedupePreservesFirstSeenOrder(t *testing.T) {
	input := []domain.Citation{
		{ID: "a", Title: "T1"},
		{ID: "b", Title: "T2"},
		{ID: "c", Title: "t1"},
		{ID: "d", Title: "T3"},
	}

	out := Dedupe(input)
	got := []string{out[0].ID, out[1].ID, out[2].ID}
	want := []string{"a", "b", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestGateSpacesConsecutiveWaits(t *testing.T) {
	interval := 50 * time.Millisecond
	gate := NewGate(interval)
	ctx := context.Background()

	if err := gate.Wait(ctx); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	start := time.Now()
	if err := gate.Wait(ctx); err != nil {
		t.Fatalf("second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < interval-5*time.Millisecond {
		t.Errorf("second wait returned after %v, want at least %v", elapsed, interval)
	}
}

func TestGateWaitHonorsCancellation(t *testing.T) {
	gate := NewGate(time.Hour)
	ctx := context.Background()

	if err := gate.Wait(ctx); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := gate.Wait(cancelCtx); err == nil {
		t.Error("expected cancellation error from gated wait")
	}
}
