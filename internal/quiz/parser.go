package quiz

import (
	"encoding/json"
	"strings"

	"github.com/ternarybob/examen/internal/models"
)

const (
	jsonFenceOpen  = "```json"
	jsonFenceClose = "```"
)

// ParseQuiz extracts a quiz from a raw model reply. It never fails outward:
// any reply that cannot be decoded into a mapping with a list-shaped
// "questions" field degrades to the canonical empty quiz, because one bad
// segment must not abort the whole source's generation run.
func ParseQuiz(raw string) models.Quiz {
	payload := extractPayload(raw)

	var decoded struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return models.EmptyQuiz()
	}
	if len(decoded.Questions) == 0 {
		// Absent or null "questions" field
		return models.EmptyQuiz()
	}

	var questions []models.Question
	if err := json.Unmarshal(decoded.Questions, &questions); err != nil {
		// Present but not list-shaped
		return models.EmptyQuiz()
	}
	if questions == nil {
		questions = []models.Question{}
	}

	return models.Quiz{Questions: questions}
}

// extractPayload isolates the JSON candidate from a model reply. Replies are
// often wrapped in prose and markdown fences; when a ```json fence is found
// the substring up to the next closing fence is used, otherwise the whole
// trimmed reply is the candidate.
func extractPayload(raw string) string {
	start := strings.Index(raw, jsonFenceOpen)
	if start == -1 {
		return strings.TrimSpace(raw)
	}

	body := raw[start+len(jsonFenceOpen):]
	end := strings.Index(body, jsonFenceClose)
	if end == -1 {
		// Opening fence without a close; fall back to everything after it
		return strings.TrimSpace(body)
	}

	return strings.TrimSpace(body[:end])
}
