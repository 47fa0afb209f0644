package models

// PageText is the raw text extracted from one page of a source document.
type PageText struct {
	Text   string
	Source string
	Page   int // 1-based
}

// Chunk represents a fixed-size window of page text with source metadata.
// ChunkID is assigned from a single counter spanning the whole ingest run.
type Chunk struct {
	Content    string
	Source     string
	PageNumber int
	ChunkID    int
}

// ChunkEmbedding pairs a chunk with its embedding vector. An empty vector
// means the embedding service failed for this chunk; the chunk is still
// stored so the run completes.
type ChunkEmbedding struct {
	Content        string
	Embedding      []float32
	SourceFilename string
	PageNumber     int
	ChunkID        int
}

// PromptResponse is the result of one RAG query.
type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
