package download

import (
	"fmt"
	"sync"
)

// SessionStats tracks download outcomes for the lifetime of one service
// run. A gallery counts once toward the downloaded total; its outcome can
// flip on retry, moving it between the finished and failed buckets.
type SessionStats struct {
	mu         sync.Mutex
	downloaded int
	finished   int
	failed     int
	order      []int64
	outcomes   map[int64]bool
	titles     map[int64]string
}

// NewSessionStats creates an empty stats coordinator
func NewSessionStats() *SessionStats {
	return &SessionStats{
		outcomes: make(map[int64]bool),
		titles:   make(map[int64]string),
	}
}

// Record registers a terminal outcome for a gallery
func (s *SessionStats) Record(gid int64, title string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, seen := s.outcomes[gid]
	s.outcomes[gid] = success
	s.titles[gid] = title
	if !seen {
		s.order = append(s.order, gid)
		s.downloaded++
		if success {
			s.finished++
		} else {
			s.failed++
		}
		return
	}
	if old && !success {
		s.finished--
		s.failed++
	} else if !old && success {
		s.finished++
		s.failed--
	}
}

// Reset clears all session state
func (s *SessionStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloaded = 0
	s.finished = 0
	s.failed = 0
	s.order = nil
	s.outcomes = make(map[int64]bool)
	s.titles = make(map[int64]string)
}

// Downloaded returns the session's downloaded-gallery count
func (s *SessionStats) Downloaded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloaded
}

// Counts returns the finished and failed bucket sizes
func (s *SessionStats) Counts() (finished, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished, s.failed
}

// Summary builds the body of the downloaded notification. A single
// outcome gets its title line; multiple outcomes of one kind get a count
// line; mixed outcomes get a combined count. Whenever more than one line
// would be needed, lines carries the expanded per-gallery list in
// insertion order, skipping entries with no recorded title.
func (s *SessionStats) Summary() (text string, lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needLines := false
	switch {
	case s.finished != 0 && s.failed == 0:
		if s.finished == 1 {
			text = fmt.Sprintf("Downloaded %s", s.firstTitle())
		} else {
			text = fmt.Sprintf("%d downloads finished", s.finished)
			needLines = true
		}
	case s.finished == 0 && s.failed != 0:
		if s.failed == 1 {
			text = fmt.Sprintf("Failed to download %s", s.firstTitle())
		} else {
			text = fmt.Sprintf("%d downloads failed", s.failed)
			needLines = true
		}
	default:
		text = fmt.Sprintf("%d downloads finished, %d failed", s.finished, s.failed)
		needLines = true
	}

	if needLines {
		for _, gid := range s.order {
			title, ok := s.titles[gid]
			if !ok || title == "" {
				continue
			}
			if s.outcomes[gid] {
				lines = append(lines, fmt.Sprintf("Downloaded %s", title))
			} else {
				lines = append(lines, fmt.Sprintf("Failed to download %s", title))
			}
		}
	}
	return text, lines
}

func (s *SessionStats) firstTitle() string {
	for _, gid := range s.order {
		if title := s.titles[gid]; title != "" {
			return title
		}
	}
	return "unknown gallery"
}
