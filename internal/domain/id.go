package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier, e.g. "exercise-6f1c2a9d".
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func NewExerciseID() string {
	return NewID("exercise")
}

func NewCoachID() string {
	return NewID("coach")
}
