package badger

import (
	"errors"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	quiz   interfaces.QuizStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		quiz:   NewQuizStorage(db, logger),
		logger: logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// QuizStorage returns the quiz storage interface
func (m *Manager) QuizStorage() interfaces.QuizStorage {
	return m.quiz
}

// RunValueLogGC triggers one round of Badger value-log garbage collection.
// Returns true when a log file was rewritten; a no-rewrite round is not an
// error.
func (m *Manager) RunValueLogGC(discardRatio float64) (bool, error) {
	if m.db == nil || m.db.Store() == nil {
		return false, nil
	}

	err := m.db.Store().Badger().RunValueLogGC(discardRatio)
	if err != nil {
		if errors.Is(err, badgerdb.ErrNoRewrite) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
