package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/models"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio_16k.wav")
	if err := os.WriteFile(path, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatalf("failed to write audio file: %v", err)
	}
	return path
}

func TestTranscribe_SegmentedResponse(t *testing.T) {
	var gotModel, gotFormat, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotAuth = r.Header.Get("Authorization")

		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("missing file part: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"text":     "hello world again",
			"language": "en",
			"segments": []map[string]any{
				{"id": 0, "start": 0.0, "end": 2.4, "text": " hello world"},
				{"id": 1, "start": 2.4, "end": 4.1, "text": " again"},
				{"id": 2, "start": 4.1, "end": 4.2, "text": "   "},
			},
		})
	}))
	defer server.Close()

	service := NewService(&common.TranscribeConfig{
		Endpoint: server.URL,
		Model:    "whisper-1",
		APIKey:   "sk-test",
		Timeout:  "30s",
	}, arbor.NewLogger())

	transcript, err := service.Transcribe(context.Background(), &models.AudioAsset{Path: writeTestAudio(t)})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if gotModel != "whisper-1" || gotFormat != "verbose_json" {
		t.Errorf("form fields model=%q format=%q", gotModel, gotFormat)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization header = %q", gotAuth)
	}

	if transcript.Language != "en" {
		t.Errorf("language = %q", transcript.Language)
	}
	// Whitespace-only segment dropped, text trimmed, order preserved
	if len(transcript.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(transcript.Chunks))
	}
	if transcript.Chunks[0].Text != "hello world" || transcript.Chunks[1].Text != "again" {
		t.Errorf("chunks = %+v", transcript.Chunks)
	}
	if transcript.Chunks[1].StartSec != 2.4 {
		t.Errorf("second chunk start = %v", transcript.Chunks[1].StartSec)
	}
}

func TestTranscribe_PlainTextFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"text": "  one flat transcript  "})
	}))
	defer server.Close()

	service := NewService(&common.TranscribeConfig{Endpoint: server.URL, Model: "whisper-1"}, arbor.NewLogger())

	transcript, err := service.Transcribe(context.Background(), &models.AudioAsset{Path: writeTestAudio(t)})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if len(transcript.Chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(transcript.Chunks))
	}
	if transcript.Chunks[0].Text != "one flat transcript" {
		t.Errorf("chunk text = %q", transcript.Chunks[0].Text)
	}
}

func TestTranscribe_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"text": ""})
	}))
	defer server.Close()

	service := NewService(&common.TranscribeConfig{Endpoint: server.URL, Model: "whisper-1"}, arbor.NewLogger())

	transcript, err := service.Transcribe(context.Background(), &models.AudioAsset{Path: writeTestAudio(t)})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if len(transcript.Chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(transcript.Chunks))
	}
}

func TestTranscribe_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service := NewService(&common.TranscribeConfig{Endpoint: server.URL, Model: "whisper-1"}, arbor.NewLogger())

	_, err := service.Transcribe(context.Background(), &models.AudioAsset{Path: writeTestAudio(t)})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestTranscribe_MissingAsset(t *testing.T) {
	service := NewService(&common.TranscribeConfig{Endpoint: "http://localhost:1", Model: "whisper-1"}, arbor.NewLogger())

	_, err := service.Transcribe(context.Background(), &models.AudioAsset{Path: "/nonexistent/audio.wav"})
	if err == nil {
		t.Fatal("expected error for missing audio file")
	}
}
