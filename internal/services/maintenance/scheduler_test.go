package maintenance

import (
	"context"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/interfaces"
	"github.com/ternarybob/examen/internal/models"
)

type fakeQuizStorage struct {
	count int
}

func (f *fakeQuizStorage) Lookup(ctx context.Context, sourceURL string) (*models.SourceQuizRecord, error) {
	return nil, interfaces.ErrRecordNotFound
}

func (f *fakeQuizStorage) Store(ctx context.Context, record *models.SourceQuizRecord) error {
	return nil
}

func (f *fakeQuizStorage) Count(ctx context.Context) (int, error) {
	return f.count, nil
}

type fakeManager struct {
	quiz     *fakeQuizStorage
	gcCalls  int
	rewrites int
}

func (f *fakeManager) QuizStorage() interfaces.QuizStorage { return f.quiz }

func (f *fakeManager) RunValueLogGC(discardRatio float64) (bool, error) {
	f.gcCalls++
	if f.rewrites > 0 {
		f.rewrites--
		return true, nil
	}
	return false, nil
}

func (f *fakeManager) Close() error { return nil }

func TestRunMaintenance_LoopsUntilNoRewrite(t *testing.T) {
	manager := &fakeManager{quiz: &fakeQuizStorage{count: 7}, rewrites: 3}
	scheduler := NewScheduler(manager, &common.MaintenanceConfig{Enabled: true}, arbor.NewLogger())

	scheduler.runMaintenance()

	// 3 rewriting rounds plus the final declining one
	if manager.gcCalls != 4 {
		t.Errorf("expected 4 GC calls, got %d", manager.gcCalls)
	}
}

func TestStart_Disabled(t *testing.T) {
	manager := &fakeManager{quiz: &fakeQuizStorage{}}
	scheduler := NewScheduler(manager, &common.MaintenanceConfig{Enabled: false}, arbor.NewLogger())

	if err := scheduler.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	scheduler.Stop()
}

func TestStart_InvalidSchedule(t *testing.T) {
	manager := &fakeManager{quiz: &fakeQuizStorage{}}
	scheduler := NewScheduler(manager, &common.MaintenanceConfig{
		Enabled:  true,
		Schedule: "not a cron expression",
	}, arbor.NewLogger())

	if err := scheduler.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
