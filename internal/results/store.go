package results

import (
	"sort"
	"sync"
	"time"

	"edupulse/internal/model"
)

// Store keeps the latest extracted vectors per course for embedding hosts
// that want to read results without a database round trip. Bounded by
// course count; the stalest course is evicted first.
type Store struct {
	mu        sync.RWMutex
	byCourse  map[string]map[string]model.FeatureVector
	updatedAt map[string]time.Time
	limit     int
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 5000
	}
	return &Store{
		byCourse:  make(map[string]map[string]model.FeatureVector),
		updatedAt: make(map[string]time.Time),
		limit:     limit,
	}
}

func (s *Store) UpdateCourse(courseID string, vectors []*model.FeatureVector) {
	if courseID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byCourse[courseID]
	if !ok {
		m = make(map[string]model.FeatureVector, len(vectors))
		s.byCourse[courseID] = m
	}
	for _, vec := range vectors {
		if vec != nil {
			m[vec.StudentID] = *vec
		}
	}
	s.updatedAt[courseID] = time.Now().UTC()
	if len(s.byCourse) > s.limit {
		s.evictOldest()
	}
}

func (s *Store) Get(courseID, studentID string) (model.FeatureVector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byCourse[courseID]
	if !ok {
		return model.FeatureVector{}, false
	}
	vec, ok := m[studentID]
	return vec, ok
}

// Course returns the latest vectors for a course sorted by student id.
func (s *Store) Course(courseID string) ([]model.FeatureVector, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byCourse[courseID]
	if !ok {
		return nil, time.Time{}, false
	}
	out := make([]model.FeatureVector, 0, len(m))
	for _, vec := range m {
		out = append(out, vec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, s.updatedAt[courseID], true
}

func (s *Store) evictOldest() {
	var oldestCourse string
	var oldest time.Time
	for course, ts := range s.updatedAt {
		if oldestCourse == "" || ts.Before(oldest) {
			oldestCourse = course
			oldest = ts
		}
	}
	if oldestCourse != "" {
		delete(s.byCourse, oldestCourse)
		delete(s.updatedAt, oldestCourse)
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCourse = make(map[string]map[string]model.FeatureVector)
	s.updatedAt = make(map[string]time.Time)
}
