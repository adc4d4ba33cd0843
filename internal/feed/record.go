package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"edupulse/internal/model"
)

// ActivityRecord is the wire form delivered by the retrieval layer, one
// record per student-course pair. A nil module or assignment list means
// that feed is not tracked for the course, which is different from a
// present-but-empty list meaning no engagement yet.
type ActivityRecord struct {
	StudentID              string         `json:"student_id"`
	CourseID               string         `json:"course_id"`
	CourseStart            string         `json:"course_start"`
	CourseEnd              string         `json:"course_end"`
	PageViews              map[string]int `json:"page_views"`
	Participations         []string       `json:"participations"`
	ModuleCompletions      []string       `json:"module_completions"`
	AssignmentInteractions []string       `json:"assignment_interactions"`
	TotalPageViews         int            `json:"total_page_views"`
	TotalParticipations    int            `json:"total_participations"`
}

func DecodeRecord(data []byte) (*ActivityRecord, error) {
	var rec ActivityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rec.StudentID) == "" {
		return nil, errors.New("record missing student_id")
	}
	if strings.TrimSpace(rec.CourseID) == "" {
		return nil, errors.New("record missing course_id")
	}
	return &rec, nil
}

// Normalize parses every timestamp into UTC instants. Course bounds must
// parse or the whole record is rejected; a malformed event timestamp only
// increments the per-student malformed counter and is skipped.
func (r *ActivityRecord) Normalize() (model.StudentActivity, error) {
	start, err := ParseTimestamp(r.CourseStart)
	if err != nil {
		return model.StudentActivity{}, fmt.Errorf("parse course_start: %w", err)
	}
	end, err := ParseTimestamp(r.CourseEnd)
	if err != nil {
		return model.StudentActivity{}, fmt.Errorf("parse course_end: %w", err)
	}
	if !end.After(start) {
		return model.StudentActivity{}, errors.New("course_end must follow course_start")
	}

	act := model.StudentActivity{
		StudentID:           strings.TrimSpace(r.StudentID),
		Course:              model.Course{ID: strings.TrimSpace(r.CourseID), Start: start, End: end},
		TotalPageViews:      r.TotalPageViews,
		TotalParticipations: r.TotalParticipations,
	}

	for key, weight := range r.PageViews {
		ts, err := ParseTimestamp(key)
		if err != nil {
			act.Malformed++
			continue
		}
		act.PageViews = append(act.PageViews, model.RawEvent{Timestamp: ts, Weight: weight})
	}
	sort.Slice(act.PageViews, func(i, j int) bool {
		a, b := act.PageViews[i], act.PageViews[j]
		if a.Timestamp.Equal(b.Timestamp) {
			return a.Weight < b.Weight
		}
		return a.Timestamp.Before(b.Timestamp)
	})

	act.Participations = r.parseInstants(r.Participations, &act.Malformed)

	if r.ModuleCompletions != nil {
		act.ModulesAvailable = true
		act.ModuleCompletions = r.parseInstants(r.ModuleCompletions, &act.Malformed)
	}
	if r.AssignmentInteractions != nil {
		act.AssignmentsAvailable = true
		act.AssignmentInteractions = r.parseInstants(r.AssignmentInteractions, &act.Malformed)
	}
	return act, nil
}

func (r *ActivityRecord) parseInstants(raw []string, malformed *int) []time.Time {
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		ts, err := ParseTimestamp(s)
		if err != nil {
			*malformed++
			continue
		}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the layouts the retrieval layer emits, plus bare
// unix seconds or milliseconds, and returns the instant in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if isNumeric(value) {
		if ts, err := parseUnix(value); err == nil {
			return ts, nil
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}

func isNumeric(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(value) > 0
}

func parseUnix(value string) (time.Time, error) {
	if len(value) >= 13 {
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(0, ms*int64(time.Millisecond)).UTC(), nil
	}
	sec, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}
