package interfaces

import (
	"context"

	"github.com/ternarybob/examen/internal/models"
)

// TranscriptionService converts an audio asset into an ordered transcript.
// An empty transcript is treated as a terminal failure by the caller.
type TranscriptionService interface {
	Transcribe(ctx context.Context, asset *models.AudioAsset) (*models.Transcript, error)
}
