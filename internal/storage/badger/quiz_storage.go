package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/interfaces"
	"github.com/ternarybob/examen/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// QuizStorage implements the QuizStorage interface for Badger.
// Records are keyed by ID and carry a unique index on SourceURL, so the
// natural-key lookup stays an index scan rather than a table walk.
type QuizStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewQuizStorage creates a new QuizStorage instance
func NewQuizStorage(db *BadgerDB, logger arbor.ILogger) interfaces.QuizStorage {
	return &QuizStorage{
		db:     db,
		logger: logger,
	}
}

func (s *QuizStorage) Lookup(ctx context.Context, sourceURL string) (*models.SourceQuizRecord, error) {
	var records []models.SourceQuizRecord
	err := s.db.Store().Find(&records, badgerhold.Where("SourceURL").Eq(sourceURL).Index("SourceURL").Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find quiz record: %w", err)
	}
	if len(records) == 0 {
		return nil, interfaces.ErrRecordNotFound
	}
	return &records[0], nil
}

func (s *QuizStorage) Store(ctx context.Context, record *models.SourceQuizRecord) error {
	if record.ID == "" {
		record.ID = common.NewQuizRecordID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := s.db.Store().Insert(record.ID, record); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) || errors.Is(err, badgerhold.ErrUniqueExists) {
			return interfaces.ErrRecordExists
		}
		return fmt.Errorf("failed to insert quiz record: %w", err)
	}

	s.logger.Debug().
		Str("id", record.ID).
		Str("url", record.SourceURL).
		Int("segments", record.NumSegments).
		Msg("Quiz record inserted")

	return nil
}

func (s *QuizStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.SourceQuizRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count quiz records: %w", err)
	}
	return int(count), nil
}
