package runlog

import (
	"sync"
	"time"

	"edupulse/internal/model"
)

// Journal is a bounded in-memory record of completed extraction runs,
// newest last. When full, the oldest entry falls off.
type Journal struct {
	mu    sync.RWMutex
	buf   []model.RunSummary
	limit int
}

func NewJournal(limit int) *Journal {
	if limit <= 0 {
		limit = 1000
	}
	return &Journal{limit: limit}
}

func (j *Journal) Add(summary model.RunSummary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.buf) < j.limit {
		j.buf = append(j.buf, summary)
		return
	}
	copy(j.buf, j.buf[1:])
	j.buf[len(j.buf)-1] = summary
}

func (j *Journal) List(limit int) []model.RunSummary {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if limit <= 0 || limit > len(j.buf) {
		limit = len(j.buf)
	}
	out := make([]model.RunSummary, 0, limit)
	start := len(j.buf) - limit
	if start < 0 {
		start = 0
	}
	for i := start; i < len(j.buf); i++ {
		out = append(out, j.buf[i])
	}
	return out
}

func (j *Journal) Since(ts time.Time) []model.RunSummary {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]model.RunSummary, 0)
	for _, s := range j.buf {
		if !s.FinishedAt.Before(ts) {
			out = append(out, s)
		}
	}
	return out
}

// LatestForCourse scans newest-first for the course's most recent run.
func (j *Journal) LatestForCourse(courseID string) (model.RunSummary, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for i := len(j.buf) - 1; i >= 0; i-- {
		if j.buf[i].CourseID == courseID {
			return j.buf[i], true
		}
	}
	return model.RunSummary{}, false
}

func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.buf = nil
}
