package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"edupulse/internal/config"
	"edupulse/internal/model"
)

// Store persists one finished extraction run. Rows are only ever inserted,
// partitioned by run_id, so features a historical model trained on are
// never overwritten by a later re-extraction.
type Store interface {
	Init(ctx context.Context) error
	Close() error
	SaveRun(ctx context.Context, summary model.RunSummary, vectors []*model.FeatureVector, composites []model.CompositeScore) error
}

func NewStore(cfg config.StorageConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		return NewSQLite(cfg.DSN)
	case "postgres", "postgresql":
		return NewPostgres(cfg.DSN)
	default:
		return nil, errors.New("unsupported storage driver")
	}
}

type baseStore struct {
	db *sql.DB
}

func (b *baseStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func encodeJSON(value any) string {
	data, _ := json.Marshal(value)
	return string(data)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func normValue(vec *model.FeatureVector, f model.FeatureIndex) sql.NullFloat64 {
	if vec.Normed.Has(f) {
		return sql.NullFloat64{Float64: vec.Norm[f], Valid: true}
	}
	return sql.NullFloat64{}
}
