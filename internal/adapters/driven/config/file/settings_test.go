package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.RankerMemory, settings.RankerStrategy)
	assert.Equal(t, "text-embedding-3-small", settings.EmbeddingModel)
	assert.Equal(t, 5, settings.WorkerConcurrency)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	settings := domain.DefaultSettings()
	settings.RankerStrategy = domain.RankerQdrant
	settings.RelevanceThreshold = 0.42
	settings.RetryBackoff = 3 * time.Second
	settings.QdrantCollection = "test_passages"

	require.NoError(t, Save(dir, settings))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.RankerQdrant, loaded.RankerStrategy)
	assert.Equal(t, 0.42, loaded.RelevanceThreshold)
	assert.Equal(t, 3*time.Second, loaded.RetryBackoff)
	assert.Equal(t, "test_passages", loaded.QdrantCollection)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "worker_concurrency = 2\nranker_strategy = \"memory\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, settings.WorkerConcurrency)
	assert.Equal(t, 3, settings.MaxAttempts)
	assert.Equal(t, "gpt-4o-mini", settings.LLMModel)
}

func TestLoad_InvalidSettingsRejected(t *testing.T) {
	dir := t.TempDir()
	content := "ranker_strategy = \"elastic\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	_, err := Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".lexora")
	require.NoError(t, Save(dir, domain.DefaultSettings()))

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}
