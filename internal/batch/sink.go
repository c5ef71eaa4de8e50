package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/techeer-11-team-k/aptmatch/internal/match"
)

// FailureSink is an append-only JSON-lines log of unmatched records,
// partitioned by period for offline review. Safe for concurrent append: the
// sink serializes writes.
type FailureSink struct {
	dir   string
	mu    sync.Mutex
	files map[string]*os.File
}

// NewFailureSink creates the sink directory if needed.
func NewFailureSink(dir string) (*FailureSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failure sink dir: %w", err)
	}
	return &FailureSink{dir: dir, files: make(map[string]*os.File)}, nil
}

type failureLine struct {
	Period  string            `json:"period"`
	Outcome string            `json:"outcome"`
	Diag    match.Diagnostics `json:"diagnostics"`
}

// Append writes one unmatched record to the period's log file.
func (s *FailureSink) Append(period, outcome string, diag match.Diagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[period]
	if !ok {
		path := filepath.Join(s.dir, fmt.Sprintf("unmatched_%s.jsonl", period))
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open failure log %s: %w", path, err)
		}
		s.files[period] = f
	}

	line, err := json.Marshal(failureLine{Period: period, Outcome: outcome, Diag: diag})
	if err != nil {
		return fmt.Errorf("encode failure line: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append failure log: %w", err)
	}
	return nil
}

// Close closes every open period file.
func (s *FailureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files = make(map[string]*os.File)
	return firstErr
}
