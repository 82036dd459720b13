package download

import (
	"reflect"
	"testing"
)

func TestSessionStatsRecord(t *testing.T) {
	s := NewSessionStats()

	s.Record(1, "alpha", true)
	s.Record(2, "beta", false)
	s.Record(3, "gamma", true)

	if got := s.Downloaded(); got != 3 {
		t.Errorf("Downloaded() = %d, want 3", got)
	}
	finished, failed := s.Counts()
	if finished != 2 || failed != 1 {
		t.Errorf("Counts() = %d/%d, want 2/1", finished, failed)
	}

	// A retry flips the outcome without counting the gallery twice.
	s.Record(1, "alpha", false)
	if got := s.Downloaded(); got != 3 {
		t.Errorf("Downloaded() after flip = %d, want 3", got)
	}
	finished, failed = s.Counts()
	if finished != 1 || failed != 2 {
		t.Errorf("Counts() after flip = %d/%d, want 1/2", finished, failed)
	}

	// Flipping back restores the buckets.
	s.Record(1, "alpha", true)
	finished, failed = s.Counts()
	if finished != 2 || failed != 1 {
		t.Errorf("Counts() after second flip = %d/%d, want 2/1", finished, failed)
	}

	// Re-recording the same outcome is a no-op for the counters.
	s.Record(3, "gamma", true)
	finished, failed = s.Counts()
	if finished != 2 || failed != 1 {
		t.Errorf("Counts() after repeat = %d/%d, want 2/1", finished, failed)
	}
}

func TestSessionStatsReset(t *testing.T) {
	s := NewSessionStats()
	s.Record(1, "alpha", true)
	s.Record(2, "beta", false)

	s.Reset()

	if got := s.Downloaded(); got != 0 {
		t.Errorf("Downloaded() after reset = %d, want 0", got)
	}
	finished, failed := s.Counts()
	if finished != 0 || failed != 0 {
		t.Errorf("Counts() after reset = %d/%d, want 0/0", finished, failed)
	}
	if text, _ := s.Summary(); text != "0 downloads finished, 0 failed" {
		t.Errorf("Summary() after reset = %q", text)
	}
}

func TestSessionStatsSummary(t *testing.T) {
	tests := []struct {
		name      string
		record    func(s *SessionStats)
		wantText  string
		wantLines []string
	}{
		{
			name:     "single success",
			record:   func(s *SessionStats) { s.Record(1, "alpha", true) },
			wantText: "Downloaded alpha",
		},
		{
			name: "multiple successes",
			record: func(s *SessionStats) {
				s.Record(1, "alpha", true)
				s.Record(2, "beta", true)
			},
			wantText:  "2 downloads finished",
			wantLines: []string{"Downloaded alpha", "Downloaded beta"},
		},
		{
			name:     "single failure",
			record:   func(s *SessionStats) { s.Record(1, "alpha", false) },
			wantText: "Failed to download alpha",
		},
		{
			name: "multiple failures",
			record: func(s *SessionStats) {
				s.Record(1, "alpha", false)
				s.Record(2, "beta", false)
			},
			wantText:  "2 downloads failed",
			wantLines: []string{"Failed to download alpha", "Failed to download beta"},
		},
		{
			name: "mixed outcomes",
			record: func(s *SessionStats) {
				s.Record(1, "alpha", true)
				s.Record(2, "beta", false)
				s.Record(3, "gamma", true)
			},
			wantText: "2 downloads finished, 1 failed",
			wantLines: []string{
				"Downloaded alpha",
				"Failed to download beta",
				"Downloaded gamma",
			},
		},
		{
			name: "untitled galleries are skipped in lines",
			record: func(s *SessionStats) {
				s.Record(1, "alpha", true)
				s.Record(2, "", true)
				s.Record(3, "gamma", true)
			},
			wantText:  "3 downloads finished",
			wantLines: []string{"Downloaded alpha", "Downloaded gamma"},
		},
		{
			name:     "single success without title",
			record:   func(s *SessionStats) { s.Record(1, "", true) },
			wantText: "Downloaded unknown gallery",
		},
		{
			name: "flip moves the line between buckets",
			record: func(s *SessionStats) {
				s.Record(1, "alpha", true)
				s.Record(2, "beta", true)
				s.Record(1, "alpha", false)
			},
			wantText: "1 downloads finished, 1 failed",
			wantLines: []string{
				"Failed to download alpha",
				"Downloaded beta",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSessionStats()
			tt.record(s)
			text, lines := s.Summary()
			if text != tt.wantText {
				t.Errorf("Summary() text = %q, want %q", text, tt.wantText)
			}
			if !reflect.DeepEqual(lines, tt.wantLines) {
				t.Errorf("Summary() lines = %v, want %v", lines, tt.wantLines)
			}
		})
	}
}
