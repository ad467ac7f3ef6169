package interfaces

import (
	"context"

	"github.com/ternarybob/examen/internal/models"
)

// AudioService acquires the spoken-audio track for a source URL.
// A failed acquisition (network error, unsupported URL, extraction failure)
// is terminal for the request.
type AudioService interface {
	// Fetch downloads the source's audio track and normalizes it to a
	// transcription-ready format. The caller owns cleanup via Remove.
	Fetch(ctx context.Context, sourceURL string) (*models.AudioAsset, error)

	// Remove deletes a previously fetched asset from the scratch directory.
	Remove(asset *models.AudioAsset) error
}
