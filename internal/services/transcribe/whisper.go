// Package transcribe converts audio assets to text through an
// OpenAI-compatible /audio/transcriptions endpoint, which covers both the
// hosted Whisper API and self-hosted Whisper servers.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/models"
)

// Service implements interfaces.TranscriptionService against a Whisper
// endpoint. Segment timings are preserved when the backend reports them so
// chunks stay in spoken order.
type Service struct {
	config *common.TranscribeConfig
	client *http.Client
	logger arbor.ILogger
}

// NewService creates the transcription service.
func NewService(config *common.TranscribeConfig, logger arbor.ILogger) *Service {
	timeout := 15 * time.Minute
	if d, err := time.ParseDuration(config.Timeout); err == nil && d > 0 {
		timeout = d
	}

	return &Service{
		config: config,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// whisperResponse is the verbose_json reply shape.
type whisperResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the asset and converts the reply into an ordered
// transcript. A backend that reports no segments still yields a single
// chunk carrying the full text.
func (s *Service) Transcribe(ctx context.Context, asset *models.AudioAsset) (*models.Transcript, error) {
	body, contentType, err := s.buildPayload(asset.Path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	s.logger.Info().Str("endpoint", s.config.Endpoint).Str("model", s.config.Model).Msg("Transcribing audio")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("transcription endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return toTranscript(&decoded), nil
}

// buildPayload assembles the multipart form: model, response_format and the
// audio file.
func (s *Service) buildPayload(audioPath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio asset: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", s.config.Model); err != nil {
		return nil, "", err
	}
	// verbose_json carries per-segment timings
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, "", err
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, "", fmt.Errorf("failed to read audio asset: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &body, mw.FormDataContentType(), nil
}

// toTranscript converts the wire reply into the domain transcript.
func toTranscript(decoded *whisperResponse) *models.Transcript {
	transcript := &models.Transcript{Language: decoded.Language}

	if len(decoded.Segments) == 0 {
		text := strings.TrimSpace(decoded.Text)
		if text != "" {
			transcript.Chunks = []models.TranscriptChunk{{Index: 0, Text: text}}
		}
		return transcript
	}

	for i, segment := range decoded.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		transcript.Chunks = append(transcript.Chunks, models.TranscriptChunk{
			Index:    i,
			Text:     text,
			StartSec: segment.Start,
			EndSec:   segment.End,
		})
	}

	return transcript
}
