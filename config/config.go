// SPDX-License-Identifier: MIT

// Package config loads the agora YAML configuration.
//
// A missing file yields Default(); keys absent from a file keep their
// default values. Durations are Go duration strings ("2s", "5m").
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/agora/cluster"
	"github.com/katalvlaran/agora/conversation"
	"github.com/katalvlaran/agora/pca"
	"github.com/katalvlaran/agora/repness"
	"github.com/katalvlaran/agora/store"
	"github.com/katalvlaran/agora/worker"
)

var (
	// ErrBadDuration indicates an unparsable or non-positive duration.
	ErrBadDuration = errors.New("config: invalid duration")

	// ErrBadLevel indicates an unknown log level.
	ErrBadLevel = errors.New("config: invalid log level")

	// ErrBadFormat indicates an unknown log format.
	ErrBadFormat = errors.New("config: invalid log format")

	// ErrEmptyPath indicates an empty store path.
	ErrEmptyPath = errors.New("config: store path must not be empty")
)

// Config is the root of agora.yaml.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Worker WorkerConfig `yaml:"worker"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

// EngineConfig tunes the analysis pipeline.
type EngineConfig struct {
	Components         int     `yaml:"components"`
	Tolerance          float64 `yaml:"tolerance"`
	MaxIterations      int     `yaml:"max_iterations"`
	SparsityScaling    bool    `yaml:"sparsity_scaling"`
	MinGroups          int     `yaml:"min_groups"`
	MaxGroups          int     `yaml:"max_groups"`
	MinGroupSize       int     `yaml:"min_group_size"`
	Restarts           int     `yaml:"restarts"`
	KMeansIterations   int     `yaml:"kmeans_iterations"`
	SilhouetteSample   int     `yaml:"silhouette_sample"` // <= 0 means all points
	Seed               int64   `yaml:"seed"`              // 0 selects the fixed default seed
	MinVotes           int     `yaml:"min_votes"`
	ZThreshold         float64 `yaml:"z_threshold"`
	MaxPerGroup        int     `yaml:"max_per_group"` // 0 = unlimited
	ConsensusThreshold float64 `yaml:"consensus_threshold"`
}

// WorkerConfig controls the ingestion loop.
type WorkerConfig struct {
	Interval          string `yaml:"interval"`
	Concurrency       int    `yaml:"concurrency"`
	PageSize          int    `yaml:"page_size"`
	RecomputeInterval string `yaml:"recompute_interval"` // "0s" disables throttling
	RecomputeTimeout  string `yaml:"recompute_timeout"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"` // ":memory:" for a throwaway database
}

// LogConfig selects level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, logfmt
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Components:         pca.DefaultComponents,
			Tolerance:          pca.DefaultTolerance,
			MaxIterations:      pca.DefaultMaxIterations,
			MinGroups:          cluster.DefaultMinGroups,
			MaxGroups:          cluster.DefaultMaxGroups,
			MinGroupSize:       cluster.DefaultMinGroupSize,
			Restarts:           cluster.DefaultRestarts,
			KMeansIterations:   cluster.DefaultMaxIterations,
			SilhouetteSample:   cluster.DefaultSilhouetteSample,
			MinVotes:           repness.DefaultMinVotes,
			ZThreshold:         repness.DefaultZThreshold,
			ConsensusThreshold: repness.DefaultConsensusThreshold,
		},
		Worker: WorkerConfig{
			Interval:          worker.DefaultInterval.String(),
			Concurrency:       worker.DefaultConcurrency,
			PageSize:          worker.DefaultPageSize,
			RecomputeInterval: worker.DefaultRecomputeInterval.String(),
			RecomputeTimeout:  worker.DefaultRecomputeTimeout.String(),
		},
		Store: StoreConfig{Path: "agora.db"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over Default and validates the result. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every section. Engine values are checked by the stage
// option validators through a throwaway Conversation.
func (c *Config) Validate() error {
	if _, err := conversation.New(c.Engine.ConversationOptions()...); err != nil {
		return fmt.Errorf("config: engine: %w", err)
	}
	if _, err := c.Worker.Options(); err != nil {
		return err
	}
	if c.Store.Path == "" {
		return ErrEmptyPath
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	if _, err := c.Log.formatter(); err != nil {
		return err
	}

	return nil
}

// ConversationOptions converts the engine section into stage options.
func (e EngineConfig) ConversationOptions() []conversation.Option {
	proj := []pca.Option{
		pca.WithComponents(e.Components),
		pca.WithTolerance(e.Tolerance),
		pca.WithMaxIterations(e.MaxIterations),
	}
	if e.SparsityScaling {
		proj = append(proj, pca.WithSparsityScaling())
	}

	return []conversation.Option{
		conversation.WithProjectionOptions(proj...),
		conversation.WithClusterOptions(
			cluster.WithGroupRange(e.MinGroups, e.MaxGroups),
			cluster.WithMinGroupSize(e.MinGroupSize),
			cluster.WithRestarts(e.Restarts),
			cluster.WithMaxIterations(e.KMeansIterations),
			cluster.WithSilhouetteSample(e.SilhouetteSample),
			cluster.WithSeed(e.Seed),
		),
		conversation.WithRepnessOptions(
			repness.WithMinVotes(e.MinVotes),
			repness.WithZThreshold(e.ZThreshold),
			repness.WithMaxPerGroup(e.MaxPerGroup),
			repness.WithConsensusThreshold(e.ConsensusThreshold),
		),
	}
}

// Options converts the worker section into worker options.
func (w WorkerConfig) Options() ([]worker.Option, error) {
	interval, err := parseDuration("worker.interval", w.Interval, false)
	if err != nil {
		return nil, err
	}
	every, err := parseDuration("worker.recompute_interval", w.RecomputeInterval, true)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration("worker.recompute_timeout", w.RecomputeTimeout, false)
	if err != nil {
		return nil, err
	}

	return []worker.Option{
		worker.WithInterval(interval),
		worker.WithConcurrency(w.Concurrency),
		worker.WithPageSize(w.PageSize),
		worker.WithRecomputeInterval(every),
		worker.WithRecomputeTimeout(timeout),
	}, nil
}

// Open opens the configured store.
func (s StoreConfig) Open() (*store.Store, error) {
	if s.Path == "" {
		return nil, ErrEmptyPath
	}

	return store.Open(s.Path)
}

// Logger builds a structured logger writing to w.
func (l LogConfig) Logger(w io.Writer) (*log.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, err
	}
	formatter, err := l.formatter()
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Formatter:       formatter,
	}), nil
}

func (l LogConfig) level() (log.Level, error) {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadLevel, l.Level)
	}

	return level, nil
}

func (l LogConfig) formatter() (log.Formatter, error) {
	switch l.Format {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrBadFormat, l.Format)
}

func parseDuration(key, s string, zeroOK bool) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 || (d == 0 && !zeroOK) {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadDuration, key, s)
	}

	return d, nil
}
