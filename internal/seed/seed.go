package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/repositories"
)

// DefaultPrograms is the catalogue created on first start
var DefaultPrograms = []models.Program{
	{Name: "Mathematics Foundations", Description: strPtr("Arithmetic, fractions and early algebra"), Subject: strPtr("Mathematics"), Level: strPtr("Beginner")},
	{Name: "Algebra and Geometry", Description: strPtr("Equations, functions and plane geometry"), Subject: strPtr("Mathematics"), Level: strPtr("Intermediate")},
	{Name: "English Reading and Writing", Description: strPtr("Comprehension, grammar and essay writing"), Subject: strPtr("English"), Level: strPtr("Beginner")},
	{Name: "Science Explorers", Description: strPtr("Hands-on physics, chemistry and biology"), Subject: strPtr("Science"), Level: strPtr("Intermediate")},
	{Name: "Introduction to Programming", Description: strPtr("Problem solving with Python"), Subject: strPtr("Computer Science"), Level: strPtr("Beginner")},
}

// CreateDefaultData creates the default programs that don't exist yet.
// It keeps going after a failure and returns every error it hit.
func CreateDefaultData(ctx context.Context, store repositories.Store, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Programs)...")

	var finalErr error
	created := 0
	for i := range DefaultPrograms {
		program := DefaultPrograms[i]
		ok, err := store.Programs().CreateIfNotExists(ctx, &program)
		if err != nil {
			lgr.Error().Err(err).Str("program", program.Name).Msg("Error creating default program")
			finalErr = errors.Join(finalErr, fmt.Errorf("program %q: %w", program.Name, err))
			continue
		}
		if ok {
			created++
		}
	}

	lgr.Info().Int("created", created).Msg("Default data check complete")
	return finalErr
}

func strPtr(s string) *string {
	return &s
}
