package badger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/interfaces"
	"github.com/ternarybob/examen/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

func newTestQuizStorage(t *testing.T) interfaces.QuizStorage {
	t.Helper()

	// Setup temporary directory for BadgerDB
	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	db := &BadgerDB{store: store}
	return NewQuizStorage(db, arbor.NewLogger())
}

func testRecord(url string) *models.SourceQuizRecord {
	return &models.SourceQuizRecord{
		SourceURL:     url,
		VideoDuration: 25,
		NumSegments:   3,
		SegmentQuizzes: []models.SegmentQuiz{
			{
				Number:    1,
				TimeRange: models.TimeRange{Start: 0, End: 10},
				Questions: []models.Question{json.RawMessage(`{"question":"Q1"}`)},
			},
			{
				Number:    2,
				TimeRange: models.TimeRange{Start: 10, End: 20},
				Questions: []models.Question{},
			},
			{
				Number:    3,
				TimeRange: models.TimeRange{Start: 20, End: 25},
				Questions: []models.Question{json.RawMessage(`{"question":"Q3"}`)},
			},
		},
	}
}

func TestQuizStorageRoundTrip(t *testing.T) {
	storage := newTestQuizStorage(t)
	ctx := context.Background()

	record := testRecord("https://example.com/watch?v=abc")
	if err := storage.Store(ctx, record); err != nil {
		t.Fatalf("Failed to store record: %v", err)
	}
	if record.ID == "" {
		t.Fatal("Store did not assign an ID")
	}

	found, err := storage.Lookup(ctx, "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Failed to look up record: %v", err)
	}

	if found.ID != record.ID {
		t.Errorf("Expected ID %s, got %s", record.ID, found.ID)
	}
	if found.NumSegments != 3 || len(found.SegmentQuizzes) != 3 {
		t.Errorf("Segment data lost in round trip: %+v", found)
	}
	if found.SegmentQuizzes[2].TimeRange != (models.TimeRange{Start: 20, End: 25}) {
		t.Errorf("Time range not preserved: %+v", found.SegmentQuizzes[2].TimeRange)
	}
	if len(found.SegmentQuizzes[0].Questions) != 1 {
		t.Errorf("Questions not preserved: %+v", found.SegmentQuizzes[0])
	}
	if found.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestQuizStorageLookupMissing(t *testing.T) {
	storage := newTestQuizStorage(t)

	_, err := storage.Lookup(context.Background(), "https://example.com/unknown")
	if !errors.Is(err, interfaces.ErrRecordNotFound) {
		t.Fatalf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestQuizStorageDuplicateURL(t *testing.T) {
	storage := newTestQuizStorage(t)
	ctx := context.Background()

	first := testRecord("https://example.com/watch?v=dup")
	if err := storage.Store(ctx, first); err != nil {
		t.Fatalf("Failed to store first record: %v", err)
	}

	// Same URL under a fresh ID must hit the unique index
	second := testRecord("https://example.com/watch?v=dup")
	err := storage.Store(ctx, second)
	if !errors.Is(err, interfaces.ErrRecordExists) {
		t.Fatalf("Expected ErrRecordExists, got %v", err)
	}

	// Same ID as well
	third := testRecord("https://example.com/watch?v=other")
	third.ID = first.ID
	err = storage.Store(ctx, third)
	if !errors.Is(err, interfaces.ErrRecordExists) {
		t.Fatalf("Expected ErrRecordExists for duplicate ID, got %v", err)
	}
}

func TestQuizStorageCount(t *testing.T) {
	storage := newTestQuizStorage(t)
	ctx := context.Background()

	count, err := storage.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 records, got %d", count)
	}

	for _, url := range []string{"https://a.test/1", "https://a.test/2", "https://a.test/3"} {
		record := testRecord(url)
		record.CreatedAt = time.Now().UTC()
		if err := storage.Store(ctx, record); err != nil {
			t.Fatalf("Failed to store %s: %v", url, err)
		}
	}

	count, err = storage.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 records, got %d", count)
	}
}
