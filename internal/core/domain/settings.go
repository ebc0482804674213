package domain

import (
	"fmt"
	"time"
)

// Ranking strategy names. The strategy is a configuration-time choice,
// never a runtime branch in the query path.
const (
	RankerMemory = "memory"
	RankerQdrant = "qdrant"
)

// Settings is the typed configuration for the Lexora core.
// Values are loaded from the TOML config file and validated once at
// process start; services receive them by value.
type Settings struct {
	// DataDir is where the SQLite job store lives. Empty means ~/.lexora/data.
	DataDir string `toml:"data_dir"`

	// Embedding provider.
	EmbeddingAPIKey  string        `toml:"embedding_api_key"`
	EmbeddingBaseURL string        `toml:"embedding_base_url"`
	EmbeddingModel   string        `toml:"embedding_model"`
	EmbeddingTimeout time.Duration `toml:"embedding_timeout"`

	// Generative model provider.
	LLMAPIKey  string        `toml:"llm_api_key"`
	LLMBaseURL string        `toml:"llm_base_url"`
	LLMModel   string        `toml:"llm_model"`
	LLMTimeout time.Duration `toml:"llm_timeout"`

	// Ranking.
	RankerStrategy     string  `toml:"ranker_strategy"`
	RelevanceThreshold float64 `toml:"relevance_threshold"`
	ResultLimit        int     `toml:"result_limit"`

	// Qdrant connection, used when RankerStrategy is "qdrant".
	QdrantHost       string        `toml:"qdrant_host"`
	QdrantPort       int           `toml:"qdrant_port"`
	QdrantCollection string        `toml:"qdrant_collection"`
	QdrantTimeout    time.Duration `toml:"qdrant_timeout"`

	// Indexing queue.
	WorkerConcurrency  int           `toml:"worker_concurrency"`
	MaxAttempts        int           `toml:"max_attempts"`
	RetryBackoff       time.Duration `toml:"retry_backoff"`
	BatchSize          int           `toml:"batch_size"`
	CompletedRetention int           `toml:"completed_retention"`
	FailedRetention    int           `toml:"failed_retention"`

	// Chunking.
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() Settings {
	s := Settings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (s *Settings) ApplyDefaults() {
	if s.EmbeddingModel == "" {
		s.EmbeddingModel = "text-embedding-3-small"
	}
	if s.EmbeddingTimeout == 0 {
		s.EmbeddingTimeout = 60 * time.Second
	}
	if s.LLMModel == "" {
		s.LLMModel = "gpt-4o-mini"
	}
	if s.LLMTimeout == 0 {
		s.LLMTimeout = 120 * time.Second
	}
	if s.RankerStrategy == "" {
		s.RankerStrategy = RankerMemory
	}
	if s.ResultLimit == 0 {
		s.ResultLimit = 5
	}
	if s.QdrantHost == "" {
		s.QdrantHost = "localhost"
	}
	if s.QdrantPort == 0 {
		s.QdrantPort = 6334
	}
	if s.QdrantCollection == "" {
		s.QdrantCollection = "lexora_passages"
	}
	if s.QdrantTimeout == 0 {
		s.QdrantTimeout = 30 * time.Second
	}
	if s.WorkerConcurrency == 0 {
		s.WorkerConcurrency = 5
	}
	if s.MaxAttempts == 0 {
		s.MaxAttempts = 3
	}
	if s.RetryBackoff == 0 {
		s.RetryBackoff = 2 * time.Second
	}
	if s.BatchSize == 0 {
		s.BatchSize = 20
	}
	if s.CompletedRetention == 0 {
		s.CompletedRetention = 100
	}
	if s.FailedRetention == 0 {
		s.FailedRetention = 200
	}
	if s.ChunkSize == 0 {
		s.ChunkSize = 1000
	}
	if s.ChunkOverlap == 0 {
		s.ChunkOverlap = 200
	}
}

// Validate checks settings consistency after defaults are applied.
func (s *Settings) Validate() error {
	switch s.RankerStrategy {
	case RankerMemory, RankerQdrant:
	default:
		return fmt.Errorf("%w: unknown ranker strategy %q", ErrInvalidInput, s.RankerStrategy)
	}
	if s.RelevanceThreshold < 0 {
		return fmt.Errorf("%w: relevance threshold must not be negative", ErrInvalidInput)
	}
	if s.WorkerConcurrency < 1 {
		return fmt.Errorf("%w: worker concurrency must be at least 1", ErrInvalidInput)
	}
	if s.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1", ErrInvalidInput)
	}
	if s.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1", ErrInvalidInput)
	}
	if s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be smaller than chunk size", ErrInvalidInput)
	}
	return nil
}
