package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/interfaces"
	"github.com/ternarybob/examen/internal/quiz"
)

// QuizHandler serves the transcribe-and-generate and quiz-retrieval
// endpoints.
type QuizHandler struct {
	service  interfaces.QuizService
	validate *validator.Validate
	logger   arbor.ILogger
}

func NewQuizHandler(service interfaces.QuizService) *QuizHandler {
	return &QuizHandler{
		service:  service,
		validate: validator.New(),
		logger:   common.GetLogger(),
	}
}

// transcribeRequest is the POST /api/transcribe body. Duration arrives as a
// json.Number so both numeric and quoted-numeric payloads are accepted.
type transcribeRequest struct {
	URL      string      `json:"url" validate:"required"`
	Duration json.Number `json:"duration"`
}

// quizRequest is the POST /api/quiz body.
type quizRequest struct {
	URL string `json:"url" validate:"required"`
}

// TranscribeHandler runs the full pipeline for a source URL: download,
// transcribe, segment, generate and store. Idempotent per URL.
func (h *QuizHandler) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Duration must be a valid number")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "URL is required")
		return
	}

	duration, err := req.Duration.Int64()
	if err != nil && req.Duration != "" {
		WriteError(w, http.StatusBadRequest, "Duration must be a valid number")
		return
	}
	if duration <= 0 {
		WriteError(w, http.StatusBadRequest, "Valid video duration (in minutes) is required")
		return
	}

	record, cached, err := h.service.ProcessSource(r.Context(), req.URL, int(duration))
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Quiz processing failed")
		switch {
		case errors.Is(err, quiz.ErrAudioUnavailable):
			WriteError(w, http.StatusInternalServerError, "Failed to download or process audio from the video")
		case errors.Is(err, quiz.ErrTranscriptEmpty):
			WriteError(w, http.StatusInternalServerError, "Failed to transcribe audio")
		case errors.Is(err, quiz.ErrInvalidDuration):
			WriteError(w, http.StatusBadRequest, "Valid video duration (in minutes) is required")
		default:
			WriteError(w, http.StatusInternalServerError, "Failed to generate quiz")
		}
		return
	}

	if cached {
		WriteSuccess(w, "Quiz already exists for this URL")
		return
	}

	WriteSuccess(w, fmt.Sprintf("Generated %d quizzes for video segments successfully", record.NumSegments))
}

// GetQuizHandler returns the stored quiz record for a URL. Retrieval never
// triggers generation.
func (h *QuizHandler) GetQuizHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "URL is required")
		return
	}

	record, err := h.service.GetQuiz(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "No quiz found for this URL. Please use /transcribe endpoint first.")
			return
		}
		h.logger.Error().Err(err).Str("url", req.URL).Msg("Quiz lookup failed")
		WriteError(w, http.StatusInternalServerError, "Failed to load quiz")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}
