package storage

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"edupulse/internal/model"
)

type sqliteStore struct {
	baseStore
}

func NewSQLite(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:edupulse.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{baseStore{db: db}}, nil
}

func (s *sqliteStore) Init(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			students INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			flagged INTEGER NOT NULL,
			dropped INTEGER NOT NULL,
			malformed INTEGER NOT NULL,
			normalized INTEGER NOT NULL,
			norm_fallback INTEGER NOT NULL,
			composites INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_course ON runs(course_id, finished_at)`,
		`CREATE TABLE IF NOT EXISTS features (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			feature TEXT NOT NULL,
			raw_value REAL NOT NULL,
			norm_value REAL,
			insufficient INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_features_run_student ON features(run_id, student_id)`,
		`CREATE TABLE IF NOT EXISTS composites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			cluster TEXT NOT NULL,
			score REAL NOT NULL,
			members_json TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_composites_run ON composites(run_id, student_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) SaveRun(ctx context.Context, summary model.RunSummary, vectors []*model.FeatureVector, composites []model.CompositeScore) error {
	if s.db == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	finished := summary.FinishedAt
	if finished.IsZero() {
		finished = nowUTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, course_id, started_at, finished_at, students, skipped, flagged, dropped, malformed, normalized, norm_fallback, composites)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.CourseID,
		summary.StartedAt.UTC(),
		finished,
		summary.Students,
		summary.Skipped,
		summary.Flagged,
		summary.Dropped,
		summary.Malformed,
		summary.Normalized,
		summary.NormFallback,
		summary.Composites,
	); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO features (run_id, student_id, course_id, feature, raw_value, norm_value, insufficient)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, vec := range vectors {
		for i := 0; i < model.NumFeatures; i++ {
			f := model.FeatureIndex(i)
			if _, err := stmt.ExecContext(ctx,
				vec.RunID,
				vec.StudentID,
				vec.CourseID,
				f.Name(),
				vec.Values[f],
				normValue(vec, f),
				vec.Flags.Has(f),
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}

	if len(composites) > 0 {
		cstmt, err := tx.PrepareContext(ctx,
			`INSERT INTO composites (run_id, student_id, course_id, cluster, score, members_json)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		defer cstmt.Close()
		for _, c := range composites {
			if _, err := cstmt.ExecContext(ctx,
				c.RunID,
				c.StudentID,
				c.CourseID,
				c.Cluster,
				c.Score,
				encodeJSON(c.Members),
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}
