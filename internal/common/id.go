package common

import (
	"github.com/google/uuid"
)

// NewQuizRecordID generates a unique quiz record ID with the "quiz_" prefix
// Format: quiz_<uuid>
func NewQuizRecordID() string {
	return "quiz_" + uuid.New().String()
}
