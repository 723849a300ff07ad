package citations

import (
	"fmt"
	"strings"

	"github.com/haeun/fitcoach-go/internal/domain"
)

// BuildSearchQuery turns a profile into the free-text literature query both
// fetchers share. Token order is fixed; empty components are skipped.
func BuildSearchQuery(profile *domain.Profile) string {
	tokens := make([]string, 0, 9)

	if profile.Goal != "" {
		tokens = append(tokens, profile.Goal)
	}
	if profile.ActivityLevel != "" {
		tokens = append(tokens, fmt.Sprintf("%s training", profile.ActivityLevel))
	}
	if len(profile.Injuries) > 0 {
		tokens = append(tokens, strings.Join(profile.Injuries, " OR "))
	}
	if len(profile.Conditions) > 0 {
		tokens = append(tokens, strings.Join(profile.Conditions, " OR "))
	}
	if profile.Medications != "" {
		tokens = append(tokens, "exercise safety medication interactions")
	}
	if profile.Smoking != "" && profile.Smoking != domain.SmokingNever {
		tokens = append(tokens, "smoking cardiometabolic risk intervention")
	}
	if profile.Alcohol != "" && profile.Alcohol != domain.AlcoholNever {
		tokens = append(tokens, "alcohol recovery inflammation")
	}
	if len(profile.TimeAvailable) > 0 {
		tokens = append(tokens, fmt.Sprintf("%s session duration", profile.TimeAvailable[0]))
	}
	if profile.Age != "" {
		tokens = append(tokens, fmt.Sprintf("%s years old longevity training adaptations", profile.Age))
	}

	return strings.Join(tokens, " + ")
}
