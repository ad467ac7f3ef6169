package quiz

import (
	"encoding/json"
	"testing"
)

func TestParseQuiz_FencedReply(t *testing.T) {
	raw := "Here is your quiz:\n```json\n{\"questions\": [{\"question\": \"What is Go?\", \"options\": [\"A language\", \"A game\", \"A fish\", \"A city\"], \"answer\": \"A language\"}]}\n```\nLet me know if you need more."

	quiz := ParseQuiz(raw)

	if len(quiz.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(quiz.Questions))
	}

	var question map[string]any
	if err := json.Unmarshal(quiz.Questions[0], &question); err != nil {
		t.Fatalf("question is not valid JSON: %v", err)
	}
	if question["question"] != "What is Go?" {
		t.Errorf("question text = %v", question["question"])
	}
}

func TestParseQuiz_BareJSON(t *testing.T) {
	raw := `  {"questions": [{"question": "Q1"}, {"question": "Q2"}]}  `

	quiz := ParseQuiz(raw)

	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
}

func TestParseQuiz_MissingClosingFence(t *testing.T) {
	raw := "```json\n{\"questions\": [{\"question\": \"Q1\"}]}"

	quiz := ParseQuiz(raw)

	if len(quiz.Questions) != 1 {
		t.Fatalf("expected 1 question from unterminated fence, got %d", len(quiz.Questions))
	}
}

func TestParseQuiz_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty reply", ""},
		{"prose only", "I could not generate a quiz for this transcript."},
		{"malformed json", "```json\n{\"questions\": [\n```"},
		{"questions missing", `{"items": []}`},
		{"questions null", `{"questions": null}`},
		{"questions not a list", `{"questions": "none"}`},
		{"top level is a list", `[{"question": "Q1"}]`},
		{"empty fence", "```json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := ParseQuiz(tt.raw)

			if quiz.Questions == nil {
				t.Fatal("degraded quiz must carry an empty list, not nil")
			}
			if len(quiz.Questions) != 0 {
				t.Errorf("expected empty quiz, got %d questions", len(quiz.Questions))
			}
		})
	}
}

func TestParseQuiz_EmptyQuestionList(t *testing.T) {
	quiz := ParseQuiz(`{"questions": []}`)

	if quiz.Questions == nil || len(quiz.Questions) != 0 {
		t.Fatalf("expected empty but non-nil question list, got %#v", quiz.Questions)
	}
}

func TestParseQuiz_PreservesQuestionShape(t *testing.T) {
	// Fields the parser does not know about must survive untouched.
	raw := `{"questions": [{"question": "Q1", "difficulty": "hard", "points": 5}]}`

	quiz := ParseQuiz(raw)

	if len(quiz.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(quiz.Questions))
	}

	var question map[string]any
	if err := json.Unmarshal(quiz.Questions[0], &question); err != nil {
		t.Fatalf("question is not valid JSON: %v", err)
	}
	if question["difficulty"] != "hard" {
		t.Errorf("unknown field dropped: %v", question)
	}
}
