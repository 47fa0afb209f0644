package store

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

// ChromemStore is the default backend: a chromem-go collection persisted
// under a local directory. The in-memory mode exists for tests.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

// NewChromemStore opens (or creates) the database and binds the named
// collection so query-only runs see documents from earlier ingests.
func NewChromemStore(path, collection string, inMemory bool) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("opening vector database: %w", err)
		}
	}

	c, err := db.GetOrCreateCollection(collection, nil, stubEmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", collection, err)
	}
	return &ChromemStore{db: db, collection: c, name: collection}, nil
}

// stubEmbeddingFunc guards against chromem computing embeddings on its own:
// every document we add carries a precomputed vector.
func stubEmbeddingFunc(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("embeddings must be precomputed")
}

func (s *ChromemStore) Rebuild(_ context.Context) error {
	// DeleteCollection is a no-op when the collection does not exist.
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("dropping collection %s: %w", s.name, err)
	}
	c, err := s.db.CreateCollection(s.name, nil, stubEmbeddingFunc)
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", s.name, err)
	}
	s.collection = c
	return nil
}

func (s *ChromemStore) Add(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []map[string]string) error {
	if len(ids) != len(embeddings) || len(ids) != len(documents) || len(ids) != len(metadatas) {
		return ErrLengthMismatch
	}

	// chromem refuses documents without a vector, so entries whose embedding
	// failed get a zero vector of the batch's dimensionality. They rank as
	// noise at query time, which is the accepted degradation.
	dim := 0
	for _, e := range embeddings {
		if len(e) > 0 {
			dim = len(e)
			break
		}
	}

	docs := make([]chromem.Document, 0, len(ids))
	for i := range ids {
		vec := embeddings[i]
		if len(vec) == 0 {
			if dim == 0 {
				log.Warn().Str("id", ids[i]).Msg("No usable embedding in batch, dropping entry")
				continue
			}
			vec = make([]float32, dim)
		}
		docs = append(docs, chromem.Document{
			ID:        ids[i],
			Content:   documents[i],
			Metadata:  metadatas[i],
			Embedding: vec,
		})
	}
	if len(docs) == 0 {
		return nil
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	hits, err := s.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.name, err)
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			ID:         h.ID,
			Content:    h.Content,
			Metadata:   h.Metadata,
			Similarity: h.Similarity,
		})
	}
	return results, nil
}
