package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/interfaces"
	"github.com/ternarybob/examen/internal/models"
)

var (
	// ErrAudioUnavailable is returned when the source's audio track cannot
	// be downloaded or converted.
	ErrAudioUnavailable = errors.New("failed to download or process audio from the video")

	// ErrTranscriptEmpty is returned when transcription produced no chunks.
	ErrTranscriptEmpty = errors.New("failed to transcribe audio")
)

// Service orchestrates the full pipeline for one source: segmentation,
// per-segment prompt building and model calls, response parsing, and the
// lookup-or-generate cache flow.
type Service struct {
	storage     interfaces.QuizStorage
	generator   interfaces.GenerationService
	audio       interfaces.AudioService
	transcriber interfaces.TranscriptionService
	prompts     *PromptBuilder
	config      *common.QuizConfig
	logger      arbor.ILogger

	// Per-source locks close the lookup-then-store race: two concurrent
	// requests for the same unseen URL serialize instead of both generating.
	sourceMu sync.Mutex
	sources  map[string]*sync.Mutex
}

// NewService creates the quiz orchestration service.
func NewService(
	storage interfaces.QuizStorage,
	generator interfaces.GenerationService,
	audio interfaces.AudioService,
	transcriber interfaces.TranscriptionService,
	prompts *PromptBuilder,
	config *common.QuizConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		storage:     storage,
		generator:   generator,
		audio:       audio,
		transcriber: transcriber,
		prompts:     prompts,
		config:      config,
		logger:      logger,
		sources:     make(map[string]*sync.Mutex),
	}
}

// GenerateForSource runs segmentation and per-segment generation for one
// source and assembles the record. It does not persist anything; storage is
// the caller's concern, which keeps generation testable without a store.
//
// Segments are processed in increasing index order and the assembled
// sequence preserves that order. A failed model call degrades that segment
// to the empty quiz and the run continues.
func (s *Service) GenerateForSource(ctx context.Context, sourceURL string, chunks []string, durationMinutes int) (*models.SourceQuizRecord, error) {
	segments, err := SegmentTranscript(chunks, durationMinutes, s.config.SegmentWindowMinutes)
	if err != nil {
		return nil, err
	}

	segmentQuizzes := make([]models.SegmentQuiz, 0, len(segments))
	for _, segment := range segments {
		s.logger.Info().
			Str("url", sourceURL).
			Int("segment", segment.Number).
			Int("start_min", segment.TimeRange.Start).
			Int("end_min", segment.TimeRange.End).
			Msg("Generating quiz for segment")

		quiz := s.generateSegmentQuiz(ctx, segment)

		segmentQuizzes = append(segmentQuizzes, models.SegmentQuiz{
			Number:    segment.Number,
			TimeRange: segment.TimeRange,
			Questions: quiz.Questions,
		})
	}

	return &models.SourceQuizRecord{
		ID:             common.NewQuizRecordID(),
		SourceURL:      sourceURL,
		VideoDuration:  durationMinutes,
		NumSegments:    len(segments),
		SegmentQuizzes: segmentQuizzes,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// generateSegmentQuiz builds the prompt, invokes the model and parses the
// reply. Transport failures degrade to the empty quiz for this segment only.
func (s *Service) generateSegmentQuiz(ctx context.Context, segment models.Segment) models.Quiz {
	prompt := s.prompts.Build(segment.Text, s.config.QuestionsPerSegment)

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("segment", segment.Number).
			Msg("Model call failed, segment degrades to empty quiz")
		return models.EmptyQuiz()
	}

	return ParseQuiz(reply)
}

// ProcessSource is the idempotent entry point: it serves the stored record
// when one exists (zero model calls) and otherwise runs the full
// acquire-transcribe-generate-store flow. The boolean reports a cache hit.
func (s *Service) ProcessSource(ctx context.Context, sourceURL string, durationMinutes int) (*models.SourceQuizRecord, bool, error) {
	if durationMinutes <= 0 {
		return nil, false, ErrInvalidDuration
	}

	unlock := s.lockSource(sourceURL)
	defer unlock()

	existing, err := s.storage.Lookup(ctx, sourceURL)
	if err == nil {
		s.logger.Info().Str("url", sourceURL).Msg("Quiz already exists for this URL")
		return existing, true, nil
	}
	if !errors.Is(err, interfaces.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("quiz lookup failed: %w", err)
	}

	s.logger.Info().Str("url", sourceURL).Int("duration_min", durationMinutes).Msg("Processing video from URL")

	asset, err := s.audio.Fetch(ctx, sourceURL)
	if err != nil {
		s.logger.Error().Err(err).Str("url", sourceURL).Msg("Audio acquisition failed")
		return nil, false, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}
	defer func() {
		if removeErr := s.audio.Remove(asset); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("path", asset.Path).Msg("Failed to remove audio asset")
		}
	}()

	s.logger.Info().Str("url", sourceURL).Msg("Audio downloaded successfully, starting transcription")

	transcript, err := s.transcriber.Transcribe(ctx, asset)
	if err != nil {
		s.logger.Error().Err(err).Str("url", sourceURL).Msg("Transcription failed")
		return nil, false, fmt.Errorf("%w: %v", ErrTranscriptEmpty, err)
	}
	if len(transcript.Chunks) == 0 {
		return nil, false, ErrTranscriptEmpty
	}

	s.logger.Info().
		Str("url", sourceURL).
		Int("chunks", len(transcript.Chunks)).
		Msg("Transcription completed successfully")

	record, err := s.GenerateForSource(ctx, sourceURL, transcript.Texts(), durationMinutes)
	if err != nil {
		return nil, false, err
	}

	if err := s.storage.Store(ctx, record); err != nil {
		if errors.Is(err, interfaces.ErrRecordExists) {
			// A concurrent run won the insert; its record is equivalent.
			stored, lookupErr := s.storage.Lookup(ctx, sourceURL)
			if lookupErr == nil {
				return stored, true, nil
			}
		}
		return nil, false, fmt.Errorf("failed to store quiz record: %w", err)
	}

	s.logger.Info().
		Str("url", sourceURL).
		Int("segments", record.NumSegments).
		Msg("Quiz record stored")

	return record, false, nil
}

// GetQuiz returns the stored record for a URL without triggering generation.
func (s *Service) GetQuiz(ctx context.Context, sourceURL string) (*models.SourceQuizRecord, error) {
	return s.storage.Lookup(ctx, sourceURL)
}

// lockSource acquires the per-source mutex and returns its unlock func.
func (s *Service) lockSource(sourceURL string) func() {
	s.sourceMu.Lock()
	mu, ok := s.sources[sourceURL]
	if !ok {
		mu = &sync.Mutex{}
		s.sources[sourceURL] = mu
	}
	s.sourceMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
