package rag

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"docuchat/internal/chunker"
	"docuchat/internal/config"
	"docuchat/internal/embedding"
	"docuchat/internal/helper"
	"docuchat/internal/loader"
	"docuchat/internal/models"
	"docuchat/internal/store"
)

// ErrNoDocuments signals that ingestion found nothing to index. It is a
// valid empty outcome, not a failure: the caller reports it and the
// existing index is left untouched.
var ErrNoDocuments = errors.New("no readable document content found")

// Generator produces a text completion for a prompt with a given model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// RAG wires the ingest and query flows. All collaborators are injected once
// at process start; the selected model is cached here for the process
// lifetime.
type RAG struct {
	store    store.Store
	embedder embeddings.Embedder
	llm      Generator
	cfg      *config.Config
	model    string
}

func NewRAG(st store.Store, embedder embeddings.Embedder, llm Generator, cfg *config.Config, model string) *RAG {
	return &RAG{store: st, embedder: embedder, llm: llm, cfg: cfg, model: model}
}

// Ingest runs the full pipeline: load pages, chunk, embed, then fully
// replace the index. It returns the number of chunks stored. Per-file and
// per-chunk failures are contained inside the pipeline stages; only storage
// and the no-content case surface here.
func (r *RAG) Ingest(ctx context.Context, dir string) (int, error) {
	runID, err := helper.GenerateUUID()
	if err != nil {
		return 0, err
	}
	log.Info().Str("run_id", runID).Str("dir", dir).Msg("Starting ingest")

	pages, err := loader.Load(dir, r.cfg.Extensions)
	if err != nil {
		return 0, err
	}
	if len(pages) == 0 {
		return 0, ErrNoDocuments
	}

	chunks := chunker.Split(pages, r.cfg.RAG.ChunkSize, r.cfg.RAG.ChunkOverlap)
	log.Info().Str("run_id", runID).Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Chunked documents")

	chunkEmbeddings := embedding.EmbedChunks(ctx, r.embedder, chunks, r.cfg.RAG.BatchSize)

	if err := r.store.Rebuild(ctx); err != nil {
		return 0, fmt.Errorf("rebuilding index: %w", err)
	}

	ids := make([]string, len(chunkEmbeddings))
	vectors := make([][]float32, len(chunkEmbeddings))
	documents := make([]string, len(chunkEmbeddings))
	metadatas := make([]map[string]string, len(chunkEmbeddings))
	for i, ce := range chunkEmbeddings {
		ids[i] = fmt.Sprintf("doc_%d", ce.ChunkID)
		vectors[i] = ce.Embedding
		documents[i] = ce.Content
		metadatas[i] = map[string]string{
			"source": ce.SourceFilename,
			"page":   strconv.Itoa(ce.PageNumber),
		}
	}

	if err := r.store.Add(ctx, ids, vectors, documents, metadatas); err != nil {
		return 0, fmt.Errorf("storing chunks: %w", err)
	}

	log.Info().Str("run_id", runID).Int("chunks", len(chunkEmbeddings)).Msg("Index rebuilt")
	return len(chunkEmbeddings), nil
}

// Query answers one question from the current index: embed the question,
// retrieve the top-k chunks, assemble the context block nearest-first, and
// generate a cited answer. Errors are returned to the caller; the process
// keeps running.
func (r *RAG) Query(ctx context.Context, question string) (*models.PromptResponse, error) {
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := r.store.Query(ctx, queryEmbedding, r.cfg.RAG.TopK)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	contextText, source := buildContext(hits)

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextText, question)
	answer, err := r.llm.Generate(ctx, r.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &models.PromptResponse{
		Query:   question,
		Source:  source,
		Content: answer,
	}, nil
}

// buildContext formats retrieved chunks into the prompt context block and a
// human-readable source listing, preserving nearest-first order. Weak
// matches are kept: there is no similarity threshold.
func buildContext(hits []store.Result) (contextText, source string) {
	var ctxB, srcB strings.Builder
	for i, hit := range hits {
		page, _ := strconv.Atoi(hit.Metadata["page"])
		ref := fmt.Sprintf(models.SourceRefTemplate, hit.Metadata["source"], page)
		log.Debug().Int("rank", i+1).Str("reference", ref).Msg("Retrieved chunk")

		ctxB.WriteString(fmt.Sprintf(models.ContextEntryTemplate, hit.Content, hit.Metadata["source"], page))
		srcB.WriteString(fmt.Sprintf("%d. %s\n", i+1, ref))
	}
	return ctxB.String(), srcB.String()
}
