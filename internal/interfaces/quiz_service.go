package interfaces

import (
	"context"

	"github.com/ternarybob/examen/internal/models"
)

// QuizService drives the full lookup-or-generate flow for one source.
type QuizService interface {
	// ProcessSource returns the cached record for the URL if one exists,
	// otherwise runs acquisition, transcription and generation, stores the
	// result and returns it. The boolean reports whether the record came
	// from the cache.
	ProcessSource(ctx context.Context, sourceURL string, durationMinutes int) (*models.SourceQuizRecord, bool, error)

	// GetQuiz returns the stored record for a URL, or ErrRecordNotFound.
	GetQuiz(ctx context.Context, sourceURL string) (*models.SourceQuizRecord, error)
}
