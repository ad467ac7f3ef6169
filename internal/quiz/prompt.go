// Package quiz implements the segmentation-and-generation pipeline: it maps
// a transcript and a declared duration to time-bounded segments, generates a
// quiz per segment through a generative-model collaborator, and degrades
// malformed or failed generations to an empty quiz instead of failing the run.
package quiz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

// PlaceholderToken marks where the segment transcription is inserted into
// the prompt template.
const PlaceholderToken = "[INSERT TRANSCRIPTION HERE]"

//go:embed prompt.md
var embeddedPromptTemplate string

// PromptBuilder assembles the generation prompt for one segment from the
// prompt template. The template is read once at construction; an unreadable
// override path is a configuration error, not a per-segment failure.
type PromptBuilder struct {
	template string
}

// NewPromptBuilder loads the prompt template with resolution order:
// 1. User override: overridePath (when set)
// 2. Embedded default: internal/quiz/prompt.md
func NewPromptBuilder(overridePath string) (*PromptBuilder, error) {
	template := embeddedPromptTemplate

	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt template %s: %w", overridePath, err)
		}
		template = string(data)
	}

	if !strings.Contains(template, PlaceholderToken) {
		return nil, fmt.Errorf("prompt template is missing the %q placeholder", PlaceholderToken)
	}

	return &PromptBuilder{template: template}, nil
}

// Build substitutes the segment text into the template and appends the
// requested question count. Only the first placeholder occurrence is
// replaced, so a placeholder token inside the transcription itself is left
// verbatim rather than expanded.
func (b *PromptBuilder) Build(segmentText string, questionCount int) string {
	prompt := strings.Replace(b.template, PlaceholderToken, segmentText, 1)
	return prompt + fmt.Sprintf("\n\nGenerate exactly %d questions.", questionCount)
}
