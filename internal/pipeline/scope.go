package pipeline

import (
	"strings"

	"edupulse/internal/config"
)

// Scope narrows an extraction run to a subset of students, globally or per
// course. Exclusion wins over inclusion; include_only mode drops any
// student not explicitly included somewhere.
type Scope struct {
	Enabled        bool
	IncludeOnly    bool
	GlobalInclude  map[string]struct{}
	GlobalExclude  map[string]struct{}
	CourseIncludes map[string]map[string]struct{}
	CourseExcludes map[string]map[string]struct{}
}

func BuildScope(cfg config.ScopeConfig) *Scope {
	sc := &Scope{Enabled: cfg.Enabled, IncludeOnly: cfg.IncludeOnly}
	if !sc.Enabled {
		return sc
	}
	sc.GlobalInclude = buildIDSet(cfg.Include)
	sc.GlobalExclude = buildIDSet(cfg.Exclude)
	sc.CourseIncludes = buildIDMap(cfg.CourseInclude)
	sc.CourseExcludes = buildIDMap(cfg.CourseExclude)
	return sc
}

func buildIDSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		id := strings.TrimSpace(v)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func buildIDMap(values map[string][]string) map[string]map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]map[string]struct{}, len(values))
	for course, list := range values {
		set := buildIDSet(list)
		if len(set) == 0 {
			continue
		}
		out[course] = set
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Scope) InScope(courseID, studentID string) bool {
	if s == nil || !s.Enabled {
		return true
	}
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return false
	}
	if s.isExcluded(courseID, studentID) {
		return false
	}
	if s.IncludeOnly && !s.isIncluded(courseID, studentID) {
		return false
	}
	return true
}

func (s *Scope) isExcluded(courseID, studentID string) bool {
	if s.GlobalExclude != nil {
		if _, ok := s.GlobalExclude[studentID]; ok {
			return true
		}
	}
	if s.CourseExcludes != nil {
		if set, ok := s.CourseExcludes[courseID]; ok {
			if _, ok := set[studentID]; ok {
				return true
			}
		}
	}
	return false
}

func (s *Scope) isIncluded(courseID, studentID string) bool {
	if s.GlobalInclude != nil {
		if _, ok := s.GlobalInclude[studentID]; ok {
			return true
		}
	}
	if s.CourseIncludes != nil {
		if set, ok := s.CourseIncludes[courseID]; ok {
			if _, ok := set[studentID]; ok {
				return true
			}
		}
	}
	return false
}
