package citations

import (
	"strings"
	"testing"

	"github.com/haeun/fitcoach-go/internal/domain"
)

func fullProfile() *domain.Profile {
	return &domain.Profile{
		Name:          "Haeun Kim",
		Age:           "38",
		Gender:        domain.GenderFemale,
		Goal:          "pain-free running",
		ActivityLevel: domain.ActivityModerate,
		TimeAvailable: []string{"45min", "60min"},
		Injuries:      []string{"patellar tendinopathy", "low back strain"},
		Conditions:    []string{"hypertension"},
		Medications:   "lisinopril",
		Smoking:       domain.SmokingFormer,
		Alcohol:       domain.AlcoholOccasionally,
	}
}

func TestBuildSearchQueryTokenOrder(t *testing.T) {
	query := BuildSearchQuery(fullProfile())

	want := strings.Join([]string{
		"pain-free running",
		"moderate training",
		"patellar tendinopathy OR low back strain",
		"hypertension",
		"exercise safety medication interactions",
		"smoking cardiometabolic risk intervention",
		"alcohol recovery inflammation",
		"45min session duration",
		"38 years old longevity training adaptations",
	}, " + ")

	if query != want {
		t.Errorf("query mismatch:\n got %q\nwant %q", query, want)
	}
}

func TestBuildSearchQuerySkipsEmptyComponents(t *testing.T) {
	profile := &domain.Profile{
		Goal:    "general fitness",
		Smoking: domain.SmokingNever,
		Alcohol: domain.AlcoholNever,
	}

	query := BuildSearchQuery(profile)
	if query != "general fitness" {
		t.Errorf("expected single token, got %q", query)
	}
	if strings.Contains(query, "smoking") || strings.Contains(query, "alcohol") {
		t.Errorf("never-status lifestyle tokens should be skipped: %q", query)
	}
}

func TestBuildSearchQueryUsesFirstTimeSlotOnly(t *testing.T) {
	profile := &domain.Profile{
		Goal:          "strength",
		TimeAvailable: []string{"30min", "90min"},
	}

	query := BuildSearchQuery(profile)
	if !strings.Contains(query, "30min session duration") {
		t.Errorf("expected first slot in query, got %q", query)
	}
	if strings.Contains(query, "90min") {
		t.Errorf("later slots must not appear in query: %q", query)
	}
}
