package quiz

import (
	"errors"
	"strings"
	"testing"

	"github.com/ternarybob/examen/internal/models"
)

func TestSegmentTranscript_WindowCoverage(t *testing.T) {
	chunks := []string{"a", "b", "c", "d", "e", "f"}

	segments, err := SegmentTranscript(chunks, 25, 10)
	if err != nil {
		t.Fatalf("SegmentTranscript failed: %v", err)
	}

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments for a 25 minute video, got %d", len(segments))
	}

	wantRanges := []models.TimeRange{
		{Start: 0, End: 10},
		{Start: 10, End: 20},
		{Start: 20, End: 25},
	}
	for i, want := range wantRanges {
		if segments[i].TimeRange != want {
			t.Errorf("segment %d range = %+v, want %+v", i+1, segments[i].TimeRange, want)
		}
		if segments[i].Number != i+1 {
			t.Errorf("segment %d numbered %d", i+1, segments[i].Number)
		}
	}
}

func TestSegmentTranscript_RemainderGoesToLastSegment(t *testing.T) {
	// 7 chunks over 3 segments: 2 + 2 + 3
	chunks := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}

	segments, err := SegmentTranscript(chunks, 30, 10)
	if err != nil {
		t.Fatalf("SegmentTranscript failed: %v", err)
	}

	want := []string{"c1\nc2", "c3\nc4", "c5\nc6\nc7"}
	for i, segment := range segments {
		if segment.Text != want[i] {
			t.Errorf("segment %d text = %q, want %q", i+1, segment.Text, want[i])
		}
	}
}

func TestSegmentTranscript_ReconstructsTranscript(t *testing.T) {
	chunks := []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

	for _, duration := range []int{1, 10, 15, 25, 40, 95} {
		segments, err := SegmentTranscript(chunks, duration, 10)
		if err != nil {
			t.Fatalf("duration %d: %v", duration, err)
		}

		var parts []string
		for _, segment := range segments {
			if segment.Text != "" {
				parts = append(parts, segment.Text)
			}
		}
		if got := strings.Join(parts, "\n"); got != strings.Join(chunks, "\n") {
			t.Errorf("duration %d: concatenated segments do not reconstruct the transcript: %q", duration, got)
		}
	}
}

func TestSegmentTranscript_ShortVideoSingleSegment(t *testing.T) {
	chunks := []string{"a", "b", "c", "d"}

	segments, err := SegmentTranscript(chunks, 10, 10)
	if err != nil {
		t.Fatalf("SegmentTranscript failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "a\nb\nc\nd" {
		t.Errorf("segment text = %q", segments[0].Text)
	}
	if segments[0].TimeRange != (models.TimeRange{Start: 0, End: 10}) {
		t.Errorf("segment range = %+v", segments[0].TimeRange)
	}
}

func TestSegmentTranscript_MoreSegmentsThanChunks(t *testing.T) {
	// 2 chunks over 5 windows: integer division gives size 0, so the first
	// four segments are empty and the last absorbs everything.
	segments, err := SegmentTranscript([]string{"x", "y"}, 50, 10)
	if err != nil {
		t.Fatalf("SegmentTranscript failed: %v", err)
	}

	if len(segments) != 5 {
		t.Fatalf("expected 5 segments, got %d", len(segments))
	}
	for i := 0; i < 4; i++ {
		if segments[i].Text != "" {
			t.Errorf("segment %d expected empty text, got %q", i+1, segments[i].Text)
		}
	}
	if segments[4].Text != "x\ny" {
		t.Errorf("last segment text = %q, want %q", segments[4].Text, "x\ny")
	}
}

func TestSegmentTranscript_EmptyTranscript(t *testing.T) {
	segments, err := SegmentTranscript(nil, 25, 10)
	if err != nil {
		t.Fatalf("SegmentTranscript failed: %v", err)
	}

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for _, segment := range segments {
		if segment.Text != "" {
			t.Errorf("segment %d expected empty text", segment.Number)
		}
	}
}

func TestSegmentTranscript_InvalidDuration(t *testing.T) {
	for _, duration := range []int{0, -1, -10} {
		_, err := SegmentTranscript([]string{"a"}, duration, 10)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("duration %d: expected ErrInvalidDuration, got %v", duration, err)
		}
	}
}

func TestSegmentTranscript_Deterministic(t *testing.T) {
	chunks := []string{"a", "b", "c", "d", "e"}

	first, err := SegmentTranscript(chunks, 25, 10)
	if err != nil {
		t.Fatalf("SegmentTranscript failed: %v", err)
	}
	second, err := SegmentTranscript(chunks, 25, 10)
	if err != nil {
		t.Fatalf("SegmentTranscript failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("segment counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text || first[i].TimeRange != second[i].TimeRange {
			t.Errorf("segment %d differs between runs", i+1)
		}
	}
}
