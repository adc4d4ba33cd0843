package model

import "time"

type Course struct {
	ID    string    `json:"course_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the course window, bounds inclusive.
func (c Course) Contains(t time.Time) bool {
	return !t.Before(c.Start) && !t.After(c.End)
}

func (c Course) DurationDays() float64 {
	return c.End.Sub(c.Start).Hours() / 24
}

// DurationWeeks is clamped to at least one week so per-week rates stay finite.
func (c Course) DurationWeeks() float64 {
	w := c.End.Sub(c.Start).Hours() / (24 * 7)
	if w < 1 {
		return 1
	}
	return w
}

type RawEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Weight    int       `json:"weight"`
}

type StudentActivity struct {
	StudentID              string      `json:"student_id"`
	Course                 Course      `json:"course"`
	PageViews              []RawEvent  `json:"page_views,omitempty"`
	Participations         []time.Time `json:"participations,omitempty"`
	ModuleCompletions      []time.Time `json:"module_completions,omitempty"`
	ModulesAvailable       bool        `json:"modules_available"`
	AssignmentInteractions []time.Time `json:"assignment_interactions,omitempty"`
	AssignmentsAvailable   bool        `json:"assignments_available"`
	TotalPageViews         int         `json:"total_page_views"`
	TotalParticipations    int         `json:"total_participations"`
	Malformed              int         `json:"malformed,omitempty"`
}

// Timeline is every surviving activity instant, sorted non-decreasing,
// all inside the course window.
type Timeline []time.Time

type FeatureVector struct {
	RunID       string               `json:"run_id"`
	StudentID   string               `json:"student_id"`
	CourseID    string               `json:"course_id"`
	ExtractedAt time.Time            `json:"extracted_at"`
	Values      [NumFeatures]float64 `json:"values"`
	Norm        [NumFeatures]float64 `json:"norm"`
	Normed      FlagSet              `json:"normed,omitempty"`
	Flags       FlagSet              `json:"flags"`
	Conditions  Conditions           `json:"conditions,omitempty"`
	Dropped     int                  `json:"dropped,omitempty"`
	Malformed   int                  `json:"malformed,omitempty"`
}

type CompositeScore struct {
	RunID     string   `json:"run_id"`
	StudentID string   `json:"student_id"`
	CourseID  string   `json:"course_id"`
	Cluster   string   `json:"cluster"`
	Score     float64  `json:"score"`
	Members   []string `json:"members"`
}

type RunSummary struct {
	RunID        string    `json:"run_id"`
	CourseID     string    `json:"course_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Students     int       `json:"students"`
	Skipped      int       `json:"skipped"`
	Flagged      int       `json:"flagged"`
	Dropped      int       `json:"dropped"`
	Malformed    int       `json:"malformed"`
	Normalized   bool      `json:"normalized"`
	NormFallback bool      `json:"norm_fallback,omitempty"`
	Composites   int       `json:"composites"`
}
