package models

import "time"

// AudioAsset is a downloaded, format-normalized audio file for one source.
// The file lives in the audio service's scratch directory and is removed
// after transcription.
type AudioAsset struct {
	Path     string        `json:"path"`
	Format   string        `json:"format"`
	Title    string        `json:"title,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// TranscriptChunk is one ordered piece of transcribed speech.
type TranscriptChunk struct {
	Index    int     `json:"index"`
	Text     string  `json:"text"`
	StartSec float64 `json:"start,omitempty"`
	EndSec   float64 `json:"end,omitempty"`
}

// Transcript is the ordered sequence of chunks for one source. Ephemeral:
// it exists only for the duration of one generation run.
type Transcript struct {
	Language string            `json:"language,omitempty"`
	Chunks   []TranscriptChunk `json:"chunks"`
}

// Texts returns the chunk texts in order.
func (t *Transcript) Texts() []string {
	texts := make([]string, len(t.Chunks))
	for i, c := range t.Chunks {
		texts[i] = c.Text
	}
	return texts
}
