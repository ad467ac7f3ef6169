package models

import (
	"encoding/json"
	"time"
)

// TimeRange is a half-open [Start, End) window in minutes from the start of
// the video.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Segment is one contiguous time window of a source's transcript.
// Segments are numbered 1-based within a source; the number always matches
// the position of its time range.
type Segment struct {
	Number    int       `json:"segment_number"`
	TimeRange TimeRange `json:"time_range"`
	Text      string    `json:"-"` // transcript text, never persisted or serialized
}

// Question is the opaque structured payload produced by the model.
// The pipeline requires only that questions arrive list-shaped; their inner
// schema belongs to the prompt template and the consuming frontend.
type Question = json.RawMessage

// Quiz is an ordered set of questions for one segment. An empty question
// list is a valid quiz, not an error.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// EmptyQuiz returns the canonical empty quiz used when a model call fails or
// its reply cannot be decoded.
func EmptyQuiz() Quiz {
	return Quiz{Questions: []Question{}}
}

// SegmentQuiz pairs a segment with its generated quiz.
type SegmentQuiz struct {
	Number    int        `json:"segment_number"`
	TimeRange TimeRange  `json:"time_range"`
	Questions []Question `json:"questions"`
}

// SourceQuizRecord is the persisted aggregate for one source URL.
// Immutable once stored; owned exclusively by the quiz storage.
type SourceQuizRecord struct {
	// Identity
	ID        string `json:"-" badgerhold:"key"` // quiz_{uuid}, internal storage key
	SourceURL string `json:"url" badgerhold:"unique"`

	// Generation parameters
	VideoDuration int `json:"video_duration"` // declared duration in minutes
	NumSegments   int `json:"num_segments"`

	// Results, ordered by segment number
	SegmentQuizzes []SegmentQuiz `json:"segment_quizzes"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
}
