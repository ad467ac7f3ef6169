// Package audio acquires the spoken-audio track for a source URL using
// yt-dlp for extraction and ffmpeg for format normalization.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/models"
)

// Service downloads and normalizes audio into a scratch directory.
// Each fetch gets a uuid-scoped filename so concurrent requests never
// collide, and assets are removed after transcription.
type Service struct {
	config *common.AudioConfig
	logger arbor.ILogger
}

// NewService creates the audio acquisition service and ensures the scratch
// directory exists.
func NewService(config *common.AudioConfig, logger arbor.ILogger) (*Service, error) {
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio work directory %s: %w", config.WorkDir, err)
	}

	return &Service{
		config: config,
		logger: logger,
	}, nil
}

// Fetch downloads the best audio track for the URL and converts it to mono
// 16kHz WAV, the format the transcription backend expects.
func (s *Service) Fetch(ctx context.Context, sourceURL string) (*models.AudioAsset, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	id := uuid.New().String()
	rawTemplate := filepath.Join(s.config.WorkDir, id+".%(ext)s")

	s.logger.Info().Str("url", sourceURL).Msg("Downloading audio from URL")

	title, err := s.download(ctx, sourceURL, rawTemplate)
	if err != nil {
		return nil, err
	}

	rawPath, err := s.findDownload(id)
	if err != nil {
		return nil, err
	}
	defer os.Remove(rawPath)

	s.logger.Info().Str("path", rawPath).Msg("Converting audio to required format")

	wavPath := filepath.Join(s.config.WorkDir, id+"_16k.wav")
	if err := s.convert(ctx, rawPath, wavPath); err != nil {
		return nil, err
	}

	return &models.AudioAsset{
		Path:   wavPath,
		Format: "wav",
		Title:  title,
	}, nil
}

// Remove deletes a previously fetched asset.
func (s *Service) Remove(asset *models.AudioAsset) error {
	if asset == nil || asset.Path == "" {
		return nil
	}
	if err := os.Remove(asset.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove audio asset %s: %w", asset.Path, err)
	}
	return nil
}

// download runs yt-dlp and returns the video title.
func (s *Service) download(ctx context.Context, sourceURL, outputTemplate string) (string, error) {
	// yt-dlp -f bestaudio/best --no-playlist --no-warnings --print after_move:title -o template url
	cmd := exec.CommandContext(ctx, s.config.YtDlpPath,
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--print", "after_move:title",
		"-o", outputTemplate,
		sourceURL,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("yt-dlp failed for %s: %s", sourceURL, detail)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// findDownload locates the file yt-dlp wrote; the extension depends on the
// source's best audio stream.
func (s *Service) findDownload(id string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.config.WorkDir, id+".*"))
	if err != nil {
		return "", fmt.Errorf("failed to scan work directory: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp reported success but no output file was found")
	}
	return matches[0], nil
}

// convert normalizes the downloaded stream to mono 16kHz WAV.
func (s *Service) convert(ctx context.Context, inputPath, outputPath string) error {
	// ffmpeg -y -i input -ac 1 -ar 16000 -f wav output
	cmd := exec.CommandContext(ctx, s.config.FFmpegPath,
		"-y", "-i", inputPath,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("ffmpeg conversion failed: %s", detail)
	}
	return nil
}
