package pipeline

import (
	"testing"

	"edupulse/internal/config"
)

func TestScopeDisabledAdmitsEveryone(t *testing.T) {
	sc := BuildScope(config.ScopeConfig{})
	if !sc.InScope("BIO-101", "anyone") {
		t.Fatalf("disabled scope should admit everyone")
	}
	var nilScope *Scope
	if !nilScope.InScope("BIO-101", "anyone") {
		t.Fatalf("nil scope should admit everyone")
	}
}

func TestScopeExclusionWins(t *testing.T) {
	sc := BuildScope(config.ScopeConfig{
		Enabled: true,
		Include: []string{"s1"},
		Exclude: []string{"s1"},
	})
	if sc.InScope("BIO-101", "s1") {
		t.Fatalf("exclusion should win over inclusion")
	}
	if !sc.InScope("BIO-101", "s2") {
		t.Fatalf("unlisted student should pass a non include-only scope")
	}
}

func TestScopeIncludeOnly(t *testing.T) {
	sc := BuildScope(config.ScopeConfig{
		Enabled:     true,
		IncludeOnly: true,
		Include:     []string{"s1"},
		CourseInclude: map[string][]string{
			"CHEM-200": {"s2"},
		},
	})
	if !sc.InScope("BIO-101", "s1") {
		t.Fatalf("globally included student rejected")
	}
	if !sc.InScope("CHEM-200", "s2") {
		t.Fatalf("course-included student rejected")
	}
	if sc.InScope("BIO-101", "s2") {
		t.Fatalf("course inclusion should not leak to other courses")
	}
	if sc.InScope("BIO-101", "s3") {
		t.Fatalf("include-only scope admitted an unlisted student")
	}
}

func TestScopeCourseExclude(t *testing.T) {
	sc := BuildScope(config.ScopeConfig{
		Enabled: true,
		CourseExclude: map[string][]string{
			"BIO-101": {"s1"},
		},
	})
	if sc.InScope("BIO-101", "s1") {
		t.Fatalf("course-excluded student admitted")
	}
	if !sc.InScope("CHEM-200", "s1") {
		t.Fatalf("course exclusion should not leak to other courses")
	}
}

func TestScopeRejectsBlankStudent(t *testing.T) {
	sc := BuildScope(config.ScopeConfig{Enabled: true})
	if sc.InScope("BIO-101", "  ") {
		t.Fatalf("blank student ids are never in scope")
	}
}

func TestScopeTrimsWhitespace(t *testing.T) {
	sc := BuildScope(config.ScopeConfig{
		Enabled: true,
		Exclude: []string{"  s1  "},
	})
	if sc.InScope("BIO-101", "s1") {
		t.Fatalf("ids should be compared after trimming")
	}
}
