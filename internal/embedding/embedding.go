package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"docuchat/internal/config"
	"docuchat/internal/models"
)

// NewEmbedder builds an embedder for the configured provider.
func NewEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg)
	case "openai", "":
		return NewOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// NewOpenAIEmbedder creates an embedder backed by an OpenAI-compatible endpoint.
func NewOpenAIEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding LLM: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// NewOllamaEmbedder creates an embedder backed by a local ollama server.
func NewOllamaEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding LLM: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// EmbedChunks embeds every chunk, preserving input order. A per-chunk
// service failure is logged and recorded as an empty vector so the rest of
// the run completes; retrieval quality for that chunk is degraded, not
// corrected. Batching is progress reporting only, the calls stay sequential.
func EmbedChunks(ctx context.Context, embedder embeddings.Embedder, chunks []models.Chunk, batchSize int) []models.ChunkEmbedding {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks to embed")
		return nil
	}
	if batchSize <= 0 {
		batchSize = models.DefaultBatchSize
	}

	out := make([]models.ChunkEmbedding, 0, len(chunks))
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		for _, chunk := range chunks[i:end] {
			vec, err := embedder.EmbedQuery(ctx, chunk.Content)
			if err != nil {
				log.Warn().Err(err).
					Int("chunk_id", chunk.ChunkID).
					Str("source", chunk.Source).
					Msg("Embedding failed, storing empty vector")
				vec = nil
			}
			out = append(out, models.ChunkEmbedding{
				Content:        chunk.Content,
				Embedding:      vec,
				SourceFilename: chunk.Source,
				PageNumber:     chunk.PageNumber,
				ChunkID:        chunk.ChunkID,
			})
		}
		log.Info().Msgf("Embedded %d/%d chunks", end, len(chunks))
	}
	return out
}
