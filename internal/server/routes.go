package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Quiz pipeline
	mux.HandleFunc("/api/transcribe", s.app.QuizHandler.TranscribeHandler) // POST - run pipeline for a URL
	mux.HandleFunc("/api/quiz", s.app.QuizHandler.GetQuizHandler)          // POST - fetch stored quiz

	// API routes - System
	mux.HandleFunc("/api/ping", s.app.APIHandler.PingHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// Catch-all for unknown paths
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.app.APIHandler.NotFoundHandler(w, r)
	})

	return mux
}
