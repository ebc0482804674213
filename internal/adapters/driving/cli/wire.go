package cli

import (
	"fmt"
	"os"

	configfile "github.com/counsel-labs/lexora/internal/adapters/driven/config/file"
	openaiembed "github.com/counsel-labs/lexora/internal/adapters/driven/embedding/openai"
	memknowledge "github.com/counsel-labs/lexora/internal/adapters/driven/knowledge/memory"
	qdrantknowledge "github.com/counsel-labs/lexora/internal/adapters/driven/knowledge/qdrant"
	openaillm "github.com/counsel-labs/lexora/internal/adapters/driven/llm/openai"
	"github.com/counsel-labs/lexora/internal/adapters/driven/storage/sqlite"
	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
	"github.com/counsel-labs/lexora/internal/core/services"
)

// app holds the wired service graph. Provider clients are constructed
// once here and passed by reference to consumers; there is no hidden
// global state.
type app struct {
	settings  domain.Settings
	store     *sqlite.Store
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	knowledge driven.KnowledgeStore
	queue     *services.IndexingQueue
	query     *services.QueryProcessor
	composer  *services.AnswerComposer
}

// newApp wires the application. When withProviders is false only the
// job store and queue surface are built, which is enough for enqueue
// and health commands and needs no API keys.
func newApp(withProviders bool) (*app, error) {
	settings, err := configfile.Load(flagConfigDir)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}

	a := &app{settings: settings, store: store}

	chunker := services.NewChunker(
		services.WithChunkSize(settings.ChunkSize),
		services.WithChunkOverlap(settings.ChunkOverlap),
	)
	queueCfg := services.QueueConfig{
		Concurrency:        settings.WorkerConcurrency,
		MaxAttempts:        settings.MaxAttempts,
		RetryBackoff:       settings.RetryBackoff,
		BatchSize:          settings.BatchSize,
		CompletedRetention: settings.CompletedRetention,
		FailedRetention:    settings.FailedRetention,
	}

	if !withProviders {
		a.queue = services.NewIndexingQueue(store.JobStore(), nil, nil, chunker, queueCfg)
		return a, nil
	}

	a.embedder, err = openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  apiKey(settings.EmbeddingAPIKey),
		BaseURL: settings.EmbeddingBaseURL,
		Model:   settings.EmbeddingModel,
		Timeout: settings.EmbeddingTimeout,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.llm, err = openaillm.NewLLMService(openaillm.Config{
		APIKey:  apiKey(settings.LLMAPIKey),
		BaseURL: settings.LLMBaseURL,
		Model:   settings.LLMModel,
		Timeout: settings.LLMTimeout,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.knowledge, err = newKnowledgeStore(settings)
	if err != nil {
		a.close()
		return nil, err
	}

	ranker := services.NewRanker(a.knowledge,
		services.WithRelevanceThreshold(settings.RelevanceThreshold))

	a.query = services.NewQueryProcessor(a.embedder)
	a.composer = services.NewAnswerComposer(ranker, a.llm,
		services.WithResultLimit(settings.ResultLimit))
	a.queue = services.NewIndexingQueue(store.JobStore(), a.knowledge, a.embedder, chunker, queueCfg)

	return a, nil
}

// newKnowledgeStore builds the configured ranking strategy. The choice
// is made once here, never branched on at query time.
func newKnowledgeStore(settings domain.Settings) (driven.KnowledgeStore, error) {
	switch settings.RankerStrategy {
	case domain.RankerQdrant:
		return qdrantknowledge.NewStore(
			settings.QdrantHost, settings.QdrantPort,
			settings.QdrantCollection, settings.QdrantTimeout)
	default:
		return memknowledge.NewStore(), nil
	}
}

// apiKey falls back to the OPENAI_API_KEY environment variable.
func apiKey(configured string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv("OPENAI_API_KEY")
}

func (a *app) close() {
	if a.knowledge != nil {
		_ = a.knowledge.Close()
	}
	if a.llm != nil {
		_ = a.llm.Close()
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}
