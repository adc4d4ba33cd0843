package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"edupulse/internal/model"
)

type Config struct {
	LogLevel   string           `json:"log_level" yaml:"log_level"`
	Feed       FeedConfig       `json:"feed" yaml:"feed"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Normalize  NormalizeConfig  `json:"normalize" yaml:"normalize"`
	Composite  CompositeConfig  `json:"composite" yaml:"composite"`
	Pipeline   PipelineConfig   `json:"pipeline" yaml:"pipeline"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Results    ResultsConfig    `json:"results" yaml:"results"`
	RunLog     RunLogConfig     `json:"run_log" yaml:"run_log"`
}

type FeedConfig struct {
	ChannelBuffer int           `json:"channel_buffer" yaml:"channel_buffer"`
	File          FileConfig    `json:"file" yaml:"file"`
	Kafka         KafkaConfig   `json:"kafka" yaml:"kafka"`
	DedupeWindow  time.Duration `json:"dedupe_window" yaml:"dedupe_window"`
}

type FileConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Files   []string `json:"files" yaml:"files"`
}

type KafkaConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Brokers []string `json:"brokers" yaml:"brokers"`
	Topic   string   `json:"topic" yaml:"topic"`
	GroupID string   `json:"group_id" yaml:"group_id"`
}

type ExtractionConfig struct {
	SessionGap   time.Duration `json:"session_gap" yaml:"session_gap"`
	PeakLow      float64       `json:"peak_low" yaml:"peak_low"`
	PeakMid      float64       `json:"peak_mid" yaml:"peak_mid"`
	PeakHigh     float64       `json:"peak_high" yaml:"peak_high"`
	EarlyWeeks   int           `json:"early_weeks" yaml:"early_weeks"`
	LateWeeks    int           `json:"late_weeks" yaml:"late_weeks"`
	AccessSample int           `json:"access_sample" yaml:"access_sample"`
	LogFloor     float64       `json:"log_floor" yaml:"log_floor"`
	Epsilon      float64       `json:"epsilon" yaml:"epsilon"`
}

type NormalizeConfig struct {
	Enabled       bool     `json:"enabled" yaml:"enabled"`
	MinPopulation int      `json:"min_population" yaml:"min_population"`
	Features      []string `json:"features" yaml:"features"`
}

type CompositeConfig struct {
	Enabled  bool `json:"enabled" yaml:"enabled"`
	Clusters int  `json:"clusters" yaml:"clusters"`
}

type PipelineConfig struct {
	Workers int         `json:"workers" yaml:"workers"`
	Scope   ScopeConfig `json:"scope" yaml:"scope"`
}

type ScopeConfig struct {
	Enabled       bool                `json:"enabled" yaml:"enabled"`
	IncludeOnly   bool                `json:"include_only" yaml:"include_only"`
	Include       []string            `json:"include" yaml:"include"`
	Exclude       []string            `json:"exclude" yaml:"exclude"`
	CourseInclude map[string][]string `json:"course_include" yaml:"course_include"`
	CourseExclude map[string][]string `json:"course_exclude" yaml:"course_exclude"`
}

type StorageConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Driver  string `json:"driver" yaml:"driver"`
	DSN     string `json:"dsn" yaml:"dsn"`
}

type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Addr      string        `json:"addr" yaml:"addr"`
	Password  string        `json:"password" yaml:"password"`
	DB        int           `json:"db" yaml:"db"`
	KeyPrefix string        `json:"key_prefix" yaml:"key_prefix"`
	TTL       time.Duration `json:"ttl" yaml:"ttl"`
}

type ResultsConfig struct {
	StoreLimit int `json:"store_limit" yaml:"store_limit"`
}

type RunLogConfig struct {
	StoreLimit int `json:"store_limit" yaml:"store_limit"`
}

// DefaultNormalizeFeatures is the subset replaced by per-course z-scores.
// Time-block proportions and spectral coefficients are already on a
// per-student normalized scale and stay raw; first_module_day and
// first_assignment_day stay raw so their -1 sentinel survives.
func DefaultNormalizeFeatures() []string {
	return []string{
		"session_count",
		"session_gap_mean_hours",
		"session_gap_std_hours",
		"session_regularity",
		"sessions_per_week",
		"engagement_velocity",
		"engagement_acceleration",
		"weekly_cv",
		"trend_reversals",
		"early_engagement_ratio",
		"late_surge",
		"peak_count_low",
		"peak_count_mid",
		"peak_count_high",
		"peak_ratio",
		"max_pos_slope",
		"max_neg_slope",
		"slope_std",
		"pos_slope_sum",
		"neg_slope_sum",
		"weekly_range",
		"first_access_day",
		"access_time_pct",
		"total_page_views",
		"total_participations",
		"activity_span_days",
		"unique_active_hours",
	}
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Feed: FeedConfig{
			ChannelBuffer: 1024,
			File:          FileConfig{Enabled: false},
			Kafka:         KafkaConfig{Enabled: false},
			DedupeWindow:  10 * time.Minute,
		},
		Extraction: ExtractionConfig{
			SessionGap:   time.Hour,
			PeakLow:      1.25,
			PeakMid:      1.5,
			PeakHigh:     2.0,
			EarlyWeeks:   3,
			LateWeeks:    2,
			AccessSample: 5,
			LogFloor:     1e-6,
			Epsilon:      1e-9,
		},
		Normalize: NormalizeConfig{
			Enabled:       true,
			MinPopulation: 2,
			Features:      DefaultNormalizeFeatures(),
		},
		Composite: CompositeConfig{Enabled: false, Clusters: 7},
		Pipeline:  PipelineConfig{Workers: 8},
		Storage:   StorageConfig{Enabled: false, Driver: "sqlite", DSN: "file:edupulse.db?_pragma=busy_timeout(5000)"},
		Cache:     CacheConfig{Enabled: false, Addr: "localhost:6379", KeyPrefix: "edupulse", TTL: 24 * time.Hour},
		Results:   ResultsConfig{StoreLimit: 5000},
		RunLog:    RunLogConfig{StoreLimit: 1000},
	}
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	trimmed := strings.TrimSpace(string(content))
	if len(trimmed) == 0 {
		return nil, errors.New("config file is empty")
	}
	var decodeErr error
	if looksLikeJSON(trimmed) {
		decodeErr = json.Unmarshal([]byte(trimmed), cfg)
	} else {
		decodeErr = yaml.Unmarshal([]byte(trimmed), cfg)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if path == "" || cfg == nil {
		return errors.New("config path or config is empty")
	}
	var data []byte
	var err error
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func looksLikeJSON(s string) bool {
	for _, ch := range s {
		if ch == '{' || ch == '[' {
			return true
		}
		if ch > ' ' {
			return false
		}
	}
	return false
}

func applyDefaults(cfg *Config) {
	if cfg.Feed.ChannelBuffer <= 0 {
		cfg.Feed.ChannelBuffer = 1024
	}
	if cfg.Feed.DedupeWindow <= 0 {
		cfg.Feed.DedupeWindow = 10 * time.Minute
	}
	if cfg.Extraction.SessionGap <= 0 {
		cfg.Extraction.SessionGap = time.Hour
	}
	if cfg.Extraction.PeakLow <= 0 {
		cfg.Extraction.PeakLow = 1.25
	}
	if cfg.Extraction.PeakMid <= 0 {
		cfg.Extraction.PeakMid = 1.5
	}
	if cfg.Extraction.PeakHigh <= 0 {
		cfg.Extraction.PeakHigh = 2.0
	}
	if cfg.Extraction.EarlyWeeks <= 0 {
		cfg.Extraction.EarlyWeeks = 3
	}
	if cfg.Extraction.LateWeeks <= 0 {
		cfg.Extraction.LateWeeks = 2
	}
	if cfg.Extraction.AccessSample <= 0 {
		cfg.Extraction.AccessSample = 5
	}
	if cfg.Extraction.LogFloor <= 0 {
		cfg.Extraction.LogFloor = 1e-6
	}
	if cfg.Extraction.Epsilon <= 0 {
		cfg.Extraction.Epsilon = 1e-9
	}
	if cfg.Normalize.MinPopulation <= 0 {
		cfg.Normalize.MinPopulation = 2
	}
	if cfg.Normalize.Features == nil {
		cfg.Normalize.Features = DefaultNormalizeFeatures()
	}
	if cfg.Composite.Clusters <= 0 {
		cfg.Composite.Clusters = 7
	}
	if cfg.Pipeline.Workers <= 0 {
		cfg.Pipeline.Workers = 8
	}
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = "localhost:6379"
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "edupulse"
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}
	if cfg.Results.StoreLimit <= 0 {
		cfg.Results.StoreLimit = 5000
	}
	if cfg.RunLog.StoreLimit <= 0 {
		cfg.RunLog.StoreLimit = 1000
	}
}

func Validate(cfg *Config) error {
	if cfg.Feed.File.Enabled && len(cfg.Feed.File.Files) == 0 {
		return errors.New("feed.file.files required when feed.file.enabled is true")
	}
	if cfg.Feed.Kafka.Enabled {
		if len(cfg.Feed.Kafka.Brokers) == 0 || cfg.Feed.Kafka.Topic == "" || cfg.Feed.Kafka.GroupID == "" {
			return errors.New("feed.kafka requires brokers, topic, group_id")
		}
	}
	if cfg.Extraction.PeakLow >= cfg.Extraction.PeakMid || cfg.Extraction.PeakMid >= cfg.Extraction.PeakHigh {
		return errors.New("extraction peak multipliers must be strictly increasing")
	}
	for _, name := range cfg.Normalize.Features {
		if _, ok := model.FeatureByName(name); !ok {
			return fmt.Errorf("normalize.features contains unknown feature: %s", name)
		}
	}
	if cfg.Normalize.MinPopulation < 2 {
		return errors.New("normalize.min_population must be at least 2")
	}
	if cfg.Composite.Enabled {
		if cfg.Composite.Clusters < 2 {
			return errors.New("composite.clusters must be at least 2")
		}
		if cfg.Composite.Clusters > model.NumFeatures {
			return fmt.Errorf("composite.clusters cannot exceed %d", model.NumFeatures)
		}
	}
	if cfg.Storage.Enabled && cfg.Storage.DSN == "" {
		return errors.New("storage.dsn required when storage.enabled is true")
	}
	if cfg.Cache.Enabled && cfg.Cache.Addr == "" {
		return errors.New("cache.addr required when cache.enabled is true")
	}
	return nil
}

type Manager struct {
	path    string
	cfg     atomic.Value
	modTime time.Time
}

func NewManager(path string) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	m := &Manager{path: path}
	m.cfg.Store(cfg)
	info, err := os.Stat(path)
	if err == nil {
		m.modTime = info.ModTime()
	}
	return m, nil
}

func (m *Manager) Get() *Config {
	if v := m.cfg.Load(); v != nil {
		return v.(*Config)
	}
	return DefaultConfig()
}

func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) Reload() (*Config, error) {
	cfg, err := Load(m.path)
	if err != nil {
		return nil, err
	}
	m.cfg.Store(cfg)
	if info, err := os.Stat(m.path); err == nil {
		m.modTime = info.ModTime()
	}
	return cfg, nil
}

func (m *Manager) Update(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := Save(m.path, cfg); err != nil {
		return err
	}
	m.cfg.Store(cfg)
	if info, err := os.Stat(m.path); err == nil {
		m.modTime = info.ModTime()
	}
	return nil
}

func (m *Manager) NeedsReload() (bool, error) {
	info, err := os.Stat(m.path)
	if err != nil {
		return false, err
	}
	return info.ModTime().After(m.modTime), nil
}

func (m *Manager) Watch(interval time.Duration, onReload func(*Config), onError func(error), stop <-chan struct{}) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			needs, err := m.NeedsReload()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if !needs {
				continue
			}
			cfg, err := m.Reload()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if onReload != nil {
				onReload(cfg)
			}
		case <-stop:
			return
		}
	}
}

func ResolvePath(path string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}
