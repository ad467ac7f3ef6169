package quiz

import (
	"errors"
	"strings"

	"github.com/ternarybob/examen/internal/models"
)

// ErrInvalidDuration is returned when the declared video duration is not a
// positive number of minutes.
var ErrInvalidDuration = errors.New("video duration must be a positive number of minutes")

// DefaultWindowMinutes is the time window covered by one segment.
const DefaultWindowMinutes = 10

// SegmentTranscript partitions transcript chunks into contiguous,
// non-overlapping time windows covering [0, durationMinutes).
//
// The segment count is max(1, ceil(duration/window)). Chunks are divided
// evenly; the division remainder is absorbed into the final segment so no
// chunk is dropped or duplicated. Empty input produces segments with empty
// text, which is valid. The function is pure and deterministic.
func SegmentTranscript(chunks []string, durationMinutes, windowMinutes int) ([]models.Segment, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if windowMinutes <= 0 {
		windowMinutes = DefaultWindowMinutes
	}

	numSegments := (durationMinutes + windowMinutes - 1) / windowMinutes
	if numSegments < 1 {
		numSegments = 1
	}

	segmentSize := len(chunks) / numSegments

	segments := make([]models.Segment, 0, numSegments)
	for i := 0; i < numSegments; i++ {
		startIdx := i * segmentSize
		endIdx := startIdx + segmentSize
		if i == numSegments-1 {
			// Last segment absorbs the remainder
			endIdx = len(chunks)
		}

		end := (i + 1) * windowMinutes
		if end > durationMinutes {
			end = durationMinutes
		}

		segments = append(segments, models.Segment{
			Number: i + 1,
			TimeRange: models.TimeRange{
				Start: i * windowMinutes,
				End:   end,
			},
			Text: strings.Join(chunks[startIdx:endIdx], "\n"),
		})
	}

	return segments, nil
}
