package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"edupulse/internal/config"
	"edupulse/internal/extract"
	"edupulse/internal/model"
	"edupulse/internal/population"
	"edupulse/internal/results"
	"edupulse/internal/runlog"
	"edupulse/internal/storage"
)

type Runner struct {
	logger  *slog.Logger
	results *results.Store
	cache   *results.Cache
	journal *runlog.Journal
	store   storage.Store
	cfg     atomic.Value
	scope   atomic.Value
}

func NewRunner(cfg *config.Config, logger *slog.Logger, resultsStore *results.Store, cache *results.Cache, journal *runlog.Journal, store storage.Store) *Runner {
	r := &Runner{
		logger:  logger,
		results: resultsStore,
		cache:   cache,
		journal: journal,
		store:   store,
	}
	r.cfg.Store(cfg)
	r.scope.Store(BuildScope(cfg.Pipeline.Scope))
	return r
}

func (r *Runner) UpdateConfig(cfg *config.Config) {
	r.cfg.Store(cfg)
	r.scope.Store(BuildScope(cfg.Pipeline.Scope))
}

func (r *Runner) config() *config.Config {
	if v := r.cfg.Load(); v != nil {
		return v.(*config.Config)
	}
	return config.DefaultConfig()
}

func (r *Runner) currentScope() *Scope {
	if v := r.scope.Load(); v != nil {
		if sc, ok := v.(*Scope); ok {
			return sc
		}
	}
	return nil
}

type RunResult struct {
	Summary       model.RunSummary
	Vectors       []*model.FeatureVector
	Agglomeration *population.Agglomeration
}

// RunCourse extracts every in-scope student concurrently, waits for all of
// them, and only then lets the population stages run: normalization and
// agglomeration never see a partial course. The finished run is persisted
// in a single transaction, so a cancelled run leaves no rows behind.
func (r *Runner) RunCourse(ctx context.Context, activities []model.StudentActivity) (*RunResult, error) {
	if len(activities) == 0 {
		return nil, errors.New("no activity records")
	}
	cfg := r.config()
	scope := r.currentScope()
	courseID := activities[0].Course.ID

	skipped := 0
	index := make(map[string]int, len(activities))
	inScope := make([]model.StudentActivity, 0, len(activities))
	for _, act := range activities {
		if act.Course.ID != courseID {
			return nil, fmt.Errorf("mixed courses in one run: %s and %s", courseID, act.Course.ID)
		}
		if !scope.InScope(courseID, act.StudentID) {
			skipped++
			continue
		}
		if pos, ok := index[act.StudentID]; ok {
			inScope[pos] = act
			continue
		}
		index[act.StudentID] = len(inScope)
		inScope = append(inScope, act)
	}
	if len(inScope) == 0 {
		return nil, fmt.Errorf("no students in scope for course %s", courseID)
	}

	runID := uuid.NewString()
	started := time.Now().UTC()
	extractor := extract.NewExtractor(cfg.Extraction, r.logger)

	vectors := make([]*model.FeatureVector, len(inScope))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Pipeline.Workers)
	for i := range inScope {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vec := extractor.Extract(inScope[i])
			vec.RunID = runID
			vec.ExtractedAt = time.Now().UTC()
			vectors[i] = &vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pop := population.New(courseID, vectors)
	normalized := false
	fallback := false
	if cfg.Normalize.Enabled {
		res := pop.Normalize(population.ResolveFeatures(cfg.Normalize.Features), cfg.Normalize.MinPopulation)
		normalized = !res.Fallback
		fallback = res.Fallback
		if fallback && r.logger != nil {
			r.logger.Warn("normalization fell back to raw values", "course_id", courseID, "students", len(vectors))
		}
	}

	var agg *population.Agglomeration
	var compositeRows []model.CompositeScore
	if cfg.Composite.Enabled {
		a, ok := pop.Agglomerate(cfg.Composite.Clusters)
		if ok {
			agg = a
			compositeRows = compositeScores(runID, courseID, vectors, a)
		} else if r.logger != nil {
			r.logger.Warn("agglomeration skipped", "course_id", courseID, "students", len(vectors))
		}
	}

	summary := model.RunSummary{
		RunID:        runID,
		CourseID:     courseID,
		StartedAt:    started,
		FinishedAt:   time.Now().UTC(),
		Students:     len(vectors),
		Skipped:      skipped,
		Normalized:   normalized,
		NormFallback: fallback,
	}
	for _, vec := range vectors {
		if vec.Flags.Any() {
			summary.Flagged++
		}
		summary.Dropped += vec.Dropped
		summary.Malformed += vec.Malformed
	}
	if agg != nil {
		summary.Composites = len(agg.Clusters)
	}

	if r.store != nil {
		if err := r.store.SaveRun(ctx, summary, vectors, compositeRows); err != nil {
			return nil, fmt.Errorf("save run %s: %w", runID, err)
		}
	}
	if r.results != nil {
		r.results.UpdateCourse(courseID, vectors)
	}
	if r.cache != nil {
		for _, vec := range vectors {
			if err := r.cache.SetVector(ctx, vec); err != nil {
				if r.logger != nil {
					r.logger.Warn("cache vector write failed", "student_id", vec.StudentID, "err", err)
				}
				break
			}
		}
		if err := r.cache.SetRun(ctx, summary); err != nil && r.logger != nil {
			r.logger.Warn("cache run write failed", "run_id", runID, "err", err)
		}
	}
	if r.journal != nil {
		r.journal.Add(summary)
	}
	if r.logger != nil {
		r.logger.Info("course run complete",
			"run_id", runID,
			"course_id", courseID,
			"students", summary.Students,
			"skipped", summary.Skipped,
			"flagged", summary.Flagged,
			"normalized", summary.Normalized,
			"composites", summary.Composites,
			"elapsed", summary.FinishedAt.Sub(started),
		)
	}
	return &RunResult{Summary: summary, Vectors: vectors, Agglomeration: agg}, nil
}

// RunAll processes course groups in course id order. A failing course does
// not stop the others; the errors come back joined.
func (r *Runner) RunAll(ctx context.Context, groups map[string][]model.StudentActivity) (map[string]*RunResult, error) {
	courses := make([]string, 0, len(groups))
	for courseID := range groups {
		courses = append(courses, courseID)
	}
	sort.Strings(courses)

	out := make(map[string]*RunResult, len(courses))
	var errs []error
	for _, courseID := range courses {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := r.RunCourse(ctx, groups[courseID])
		if err != nil {
			errs = append(errs, fmt.Errorf("course %s: %w", courseID, err))
			continue
		}
		out[courseID] = res
	}
	return out, errors.Join(errs...)
}

// Gather drains the feed until it closes, grouping records per course.
func Gather(ctx context.Context, in <-chan model.StudentActivity) (map[string][]model.StudentActivity, error) {
	groups := make(map[string][]model.StudentActivity)
	for {
		select {
		case act, ok := <-in:
			if !ok {
				return groups, nil
			}
			groups[act.Course.ID] = append(groups[act.Course.ID], act)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func compositeScores(runID, courseID string, vectors []*model.FeatureVector, agg *population.Agglomeration) []model.CompositeScore {
	rows := make([]model.CompositeScore, 0, len(vectors)*len(agg.Clusters))
	for vi, vec := range vectors {
		for ci, cluster := range agg.Clusters {
			members := make([]string, len(cluster.Members))
			for mi, f := range cluster.Members {
				members[mi] = f.Name()
			}
			rows = append(rows, model.CompositeScore{
				RunID:     runID,
				StudentID: vec.StudentID,
				CourseID:  courseID,
				Cluster:   cluster.Name,
				Score:     agg.Scores[vi][ci],
				Members:   members,
			})
		}
	}
	return rows
}
