package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
embed_llm:
  key: sk-embed
llm:
  key: sk-chat
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "./pdfs", cfg.DocsDir)
	assert.Equal(t, []string{".pdf"}, cfg.Extensions)
	assert.Equal(t, models.DefaultChunkSize, cfg.RAG.ChunkSize)
	assert.Equal(t, models.DefaultChunkOverlap, cfg.RAG.ChunkOverlap)
	assert.Equal(t, models.DefaultTopK, cfg.RAG.TopK)
	assert.Equal(t, models.DefaultBatchSize, cfg.RAG.BatchSize)
	assert.Equal(t, models.DefaultPreferredModels, cfg.PreferredModels)
	assert.Equal(t, "chromem", cfg.Store.Backend)
	assert.Equal(t, "pdf_knowledge_base", cfg.Store.Collection)
}

func TestLoadConfigResolvesKeyFromEnv(t *testing.T) {
	t.Setenv("DOCUCHAT_TEST_KEY", "sk-from-env")
	path := writeConfig(t, `
embed_llm:
  key_env: DOCUCHAT_TEST_KEY
llm:
  key_env: DOCUCHAT_TEST_KEY
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.EmbedLLM.Key)
	assert.Equal(t, "sk-from-env", cfg.LLM.Key)
}

func TestLoadConfigMissingCredentialFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
llm:
  key: sk-chat
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "embedding API key missing")
}

func TestLoadConfigOllamaEmbedderNeedsNoKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
embed_llm:
  provider: ollama
  base_url: http://localhost:11434
  model: nomic-embed-text
llm:
  key: sk-chat
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.EmbedLLM.Provider)
}

func TestLoadConfigRejectsOverlapNotSmallerThanSize(t *testing.T) {
	path := writeConfig(t, `
embed_llm:
  key: sk-embed
llm:
  key: sk-chat
rag:
  chunk_size: 500
  chunk_overlap: 500
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "chunk_overlap")
}

func TestLoadConfigPostgresRequiresDSN(t *testing.T) {
	path := writeConfig(t, `
embed_llm:
  key: sk-embed
llm:
  key: sk-chat
store:
  backend: postgres
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "postgres_dsn")
}

func TestLoadConfigMissingFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
