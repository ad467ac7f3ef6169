package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/examen/internal/models"
)

var (
	// ErrRecordNotFound is returned by Lookup when no record exists for a
	// source URL.
	ErrRecordNotFound = errors.New("quiz record not found")

	// ErrRecordExists is returned by Store when a record for the source URL
	// is already present.
	ErrRecordExists = errors.New("quiz record already exists")
)

// QuizStorage is the persistence boundary for generated quiz records.
// Records are keyed internally by ID but looked up by their natural key,
// the source URL.
type QuizStorage interface {
	// Lookup returns the record for a source URL. Pure read; returns
	// ErrRecordNotFound when no record exists.
	Lookup(ctx context.Context, sourceURL string) (*models.SourceQuizRecord, error)

	// Store inserts a freshly generated record. Returns ErrRecordExists
	// when a record for the same source URL is already present; records
	// are never updated in place.
	Store(ctx context.Context, record *models.SourceQuizRecord) error

	// Count returns the number of stored quiz records.
	Count(ctx context.Context) (int, error)
}

// StorageManager provides access to all storage interfaces and owns the
// underlying database connection.
type StorageManager interface {
	QuizStorage() QuizStorage

	// RunValueLogGC triggers one round of Badger value-log garbage
	// collection. Returns true when a log file was rewritten.
	RunValueLogGC(discardRatio float64) (bool, error)

	Close() error
}
