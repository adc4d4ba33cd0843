package results

import (
	"testing"

	"edupulse/internal/model"
)

func vec(courseID, studentID string, sessions float64) *model.FeatureVector {
	v := &model.FeatureVector{CourseID: courseID, StudentID: studentID}
	v.Values[model.FeatSessionCount] = sessions
	return v
}

func TestStoreGetLatest(t *testing.T) {
	s := NewStore(10)
	s.UpdateCourse("BIO-101", []*model.FeatureVector{
		vec("BIO-101", "s1", 3),
		vec("BIO-101", "s2", 5),
	})

	got, ok := s.Get("BIO-101", "s2")
	if !ok || got.Values[model.FeatSessionCount] != 5 {
		t.Fatalf("lookup failed: %v %v", got.Values[model.FeatSessionCount], ok)
	}
	if _, ok := s.Get("BIO-101", "nobody"); ok {
		t.Fatalf("unknown student resolved")
	}
	if _, ok := s.Get("CHEM-200", "s1"); ok {
		t.Fatalf("unknown course resolved")
	}
}

func TestStoreLaterRunReplacesStudent(t *testing.T) {
	s := NewStore(10)
	s.UpdateCourse("BIO-101", []*model.FeatureVector{vec("BIO-101", "s1", 3)})
	s.UpdateCourse("BIO-101", []*model.FeatureVector{vec("BIO-101", "s1", 9)})

	got, ok := s.Get("BIO-101", "s1")
	if !ok || got.Values[model.FeatSessionCount] != 9 {
		t.Fatalf("later run should win, got %v", got.Values[model.FeatSessionCount])
	}
}

func TestStoreCourseSorted(t *testing.T) {
	s := NewStore(10)
	s.UpdateCourse("BIO-101", []*model.FeatureVector{
		vec("BIO-101", "s9", 1),
		vec("BIO-101", "s1", 2),
		vec("BIO-101", "s5", 3),
	})

	vectors, updated, ok := s.Course("BIO-101")
	if !ok || len(vectors) != 3 {
		t.Fatalf("course lookup failed")
	}
	if vectors[0].StudentID != "s1" || vectors[2].StudentID != "s9" {
		t.Fatalf("vectors not sorted by student: %v %v", vectors[0].StudentID, vectors[2].StudentID)
	}
	if updated.IsZero() {
		t.Fatalf("update timestamp missing")
	}
}

func TestStoreEvictsStalestCourse(t *testing.T) {
	s := NewStore(2)
	s.UpdateCourse("A", []*model.FeatureVector{vec("A", "s1", 1)})
	s.UpdateCourse("B", []*model.FeatureVector{vec("B", "s1", 1)})
	s.UpdateCourse("C", []*model.FeatureVector{vec("C", "s1", 1)})

	if _, _, ok := s.Course("A"); ok {
		t.Fatalf("stalest course should have been evicted")
	}
	if _, _, ok := s.Course("C"); !ok {
		t.Fatalf("newest course missing")
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(10)
	s.UpdateCourse("BIO-101", []*model.FeatureVector{vec("BIO-101", "s1", 1)})
	s.Clear()
	if _, _, ok := s.Course("BIO-101"); ok {
		t.Fatalf("clear should drop everything")
	}
}
