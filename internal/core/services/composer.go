package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
	"github.com/counsel-labs/lexora/internal/core/ports/driving"
	"github.com/counsel-labs/lexora/internal/logger"
)

// Ensure AnswerComposer implements the interface.
var _ driving.AnswerService = (*AnswerComposer)(nil)

// DefaultResultLimit is how many ranked candidates the composer
// requests when no limit is configured.
const DefaultResultLimit = 5

// AnswerComposer turns a ranked result set into a final cited answer
// via a generative-model call. Exactly one passage wins the citation;
// ties are broken by rank order.
type AnswerComposer struct {
	ranker      *Ranker
	llm         driven.LLMService
	resultLimit int
	chatOpts    driven.ChatOptions
}

// ComposerOption configures the answer composer.
type ComposerOption func(*AnswerComposer)

// WithResultLimit caps how many candidates are ranked per question.
func WithResultLimit(limit int) ComposerOption {
	return func(c *AnswerComposer) {
		if limit > 0 {
			c.resultLimit = limit
		}
	}
}

// WithChatOptions sets the generation options for the model call.
func WithChatOptions(opts driven.ChatOptions) ComposerOption {
	return func(c *AnswerComposer) {
		c.chatOpts = opts
	}
}

// NewAnswerComposer creates an answer composer.
func NewAnswerComposer(ranker *Ranker, llm driven.LLMService, opts ...ComposerOption) *AnswerComposer {
	c := &AnswerComposer{
		ranker:      ranker,
		llm:         llm,
		resultLimit: DefaultResultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose ranks the query and composes a cited answer.
//
// When the ranked list is empty it short-circuits: the canned
// no-relevant-law answer is returned, no generative model call is made,
// and sources is empty. This path is deterministic and costs nothing.
func (c *AnswerComposer) Compose(ctx context.Context, emb *domain.QueryEmbedding, query string) (*domain.Answer, error) {
	logger.Section("Answer Composition")
	defer logger.Timing("answer composition", time.Now())

	results, err := c.ranker.Rank(ctx, emb, c.resultLimit)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		logger.Info("No relevant passage found, returning canned answer")
		return &domain.Answer{
			Text:         domain.NoRelevantLawAnswer,
			CitedPassage: nil,
			Sources:      []domain.SimilarityResult{},
		}, nil
	}

	winner := results[0]
	logger.Info("Cited passage: %s (score %.4f)", winner.PassageID, winner.Score)

	messages := []driven.ChatMessage{
		{Role: "system", Content: buildInstructions(winner)},
		{Role: "user", Content: query},
	}

	text, err := c.llm.Chat(ctx, messages, c.chatOpts)
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return nil, providerErr(domain.ErrGenerationProvider, err)
	}

	return &domain.Answer{
		Text:         text,
		CitedPassage: winner.Passage(),
		Sources:      results,
	}, nil
}

// buildInstructions builds the strict system prompt. The winning
// passage's content is embedded verbatim and the response format
// requires it to be reproduced exactly in the "Relevant Law" section.
func buildInstructions(winner domain.SimilarityResult) string {
	var b strings.Builder

	b.WriteString("You are a legal assistant. Answer the user's question using only ")
	b.WriteString("the legal provision quoted below. Do not invent law that is not in ")
	b.WriteString("the provision.\n\n")

	if winner.Title != "" {
		fmt.Fprintf(&b, "Provision title: %s\n", winner.Title)
	}
	if winner.Source != "" {
		fmt.Fprintf(&b, "Provision source: %s\n", winner.Source)
	}
	b.WriteString("Provision text:\n\"\"\"\n")
	b.WriteString(winner.Content)
	b.WriteString("\n\"\"\"\n\n")

	b.WriteString("Respond in exactly two sections:\n")
	b.WriteString("Answer: a clear, plain-language answer to the question.\n")
	b.WriteString("Relevant Law: reproduce the provision text above exactly as ")
	b.WriteString("written, unmodified, with no trailing commentary.\n")

	return b.String()
}
