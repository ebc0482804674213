package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

func TestAnswerComposer_Compose_NoRelevantLaw(t *testing.T) {
	store := &mockKnowledgeStore{}
	llm := &mockLLM{reply: "should never be used"}
	composer := NewAnswerComposer(NewRanker(store), llm)

	answer, err := composer.Compose(context.Background(),
		testEmbedding([]float32{1, 0}), "What is the legal drinking age?")
	require.NoError(t, err)

	assert.Equal(t, domain.NoRelevantLawAnswer, answer.Text)
	assert.Nil(t, answer.CitedPassage)
	assert.NotNil(t, answer.Sources)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 0, llm.calls, "the empty path must not call the model")
}

func TestAnswerComposer_Compose_CitesTopResult(t *testing.T) {
	provision := "No person shall sell or supply alcoholic drink to a person under the age of eighteen years."
	store := &mockKnowledgeStore{
		results: []domain.SimilarityResult{
			{
				PassageID: "liquor-act:0003",
				Title:     "Sale to minors",
				Content:   provision,
				Score:     0.93,
				Source:    "Liquor Act, Cap 93",
			},
			{PassageID: "penal-code:0051", Content: "Unrelated provision.", Score: 0.41},
		},
	}
	llm := &mockLLM{reply: "Answer: The legal drinking age is 18.\nRelevant Law: " + provision}
	composer := NewAnswerComposer(NewRanker(store), llm)

	answer, err := composer.Compose(context.Background(),
		testEmbedding([]float32{1, 0}), "What is the legal drinking age in Uganda?")
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, llm.reply, answer.Text)

	require.NotNil(t, answer.CitedPassage)
	assert.Equal(t, "liquor-act:0003", answer.CitedPassage.ID)
	assert.Equal(t, provision, answer.CitedPassage.Content)

	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "liquor-act:0003", answer.Sources[0].PassageID)

	// The instructions must quote the winning provision verbatim and
	// demand the two-section response format.
	require.Len(t, llm.lastMessages, 2)
	system := llm.lastMessages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, provision)
	assert.Contains(t, system.Content, "Answer:")
	assert.Contains(t, system.Content, "Relevant Law:")
	assert.Contains(t, system.Content, "Liquor Act, Cap 93")

	user := llm.lastMessages[1]
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "What is the legal drinking age in Uganda?", user.Content)
}

func TestAnswerComposer_Compose_GenerationError(t *testing.T) {
	store := &mockKnowledgeStore{
		results: []domain.SimilarityResult{{PassageID: "a:0000", Content: "text", Score: 0.8}},
	}
	llm := &mockLLM{err: errors.New("rate limited")}
	composer := NewAnswerComposer(NewRanker(store), llm)

	_, err := composer.Compose(context.Background(),
		testEmbedding([]float32{1, 0}), "What does the law say?")
	assert.ErrorIs(t, err, domain.ErrGenerationProvider)
}

func TestAnswerComposer_Compose_GenerationTimeout(t *testing.T) {
	store := &mockKnowledgeStore{
		results: []domain.SimilarityResult{{PassageID: "a:0000", Content: "text", Score: 0.8}},
	}
	llm := &mockLLM{err: context.DeadlineExceeded}
	composer := NewAnswerComposer(NewRanker(store), llm)

	_, err := composer.Compose(context.Background(),
		testEmbedding([]float32{1, 0}), "What does the law say?")
	assert.ErrorIs(t, err, domain.ErrProviderTimeout)
}

func TestAnswerComposer_Compose_RankErrorPropagates(t *testing.T) {
	store := &mockKnowledgeStore{rankErr: errors.New("connection refused")}
	llm := &mockLLM{reply: "unused"}
	composer := NewAnswerComposer(NewRanker(store), llm)

	_, err := composer.Compose(context.Background(),
		testEmbedding([]float32{1, 0}), "What does the law say?")
	assert.ErrorIs(t, err, domain.ErrKnowledgeStore)
	assert.Equal(t, 0, llm.calls)
}

func TestAnswerComposer_WithResultLimit(t *testing.T) {
	store := &mockKnowledgeStore{
		results: []domain.SimilarityResult{
			{PassageID: "a:0000", Content: "one", Score: 0.9},
			{PassageID: "b:0000", Content: "two", Score: 0.8},
			{PassageID: "c:0000", Content: "three", Score: 0.7},
		},
	}
	llm := &mockLLM{reply: "answer"}
	composer := NewAnswerComposer(NewRanker(store), llm, WithResultLimit(2))

	answer, err := composer.Compose(context.Background(),
		testEmbedding([]float32{1, 0}), "What does the law say?")
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 2)
}
