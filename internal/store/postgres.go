package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"docuchat/internal/config"
)

// vectorSize is the pgvector column dimensionality. It must match the
// embedding model in use.
const vectorSize = 768

type pgChunk struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            string    `bun:"id,pk"`
	Content       string    `bun:"content,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	Source        string    `bun:"source,notnull"`
	Page          int       `bun:"page,notnull"`
	Distance      float64   `bun:"distance,scanonly"`
}

// PostgresStore keeps the index in a pgvector-enabled Postgres table.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(cfg *config.StoreConfig) (*PostgresStore, error) {
	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.PostgresDSN),
		pgdriver.WithPassword(cfg.PostgresKey),
	)
	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Rebuild(ctx context.Context) error {
	if _, err := s.db.NewDropTable().Model((*pgChunk)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("dropping chunks table: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*pgChunk)(nil)).Exec(ctx); err != nil {
		return fmt.Errorf("creating chunks table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []map[string]string) error {
	if len(ids) != len(embeddings) || len(ids) != len(documents) || len(ids) != len(metadatas) {
		return ErrLengthMismatch
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]pgChunk, 0, len(ids))
	for i := range ids {
		vec := embeddings[i]
		if len(vec) == 0 {
			vec = make([]float32, vectorSize)
		}
		page, _ := strconv.Atoi(metadatas[i]["page"])
		rows = append(rows, pgChunk{
			ID:        ids[i],
			Content:   documents[i],
			Embedding: vec,
			Source:    metadatas[i]["source"],
			Page:      page,
		})
	}

	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("inserting chunks: %w", err)
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	var rows []pgChunk
	err := s.db.NewSelect().
		Model(&rows).
		Column("id", "content", "source", "page").
		ColumnExpr("embedding <-> ? AS distance", embedding).
		OrderExpr("embedding <-> ?", embedding).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, r := range rows {
		results = append(results, Result{
			ID:      r.ID,
			Content: r.Content,
			Metadata: map[string]string{
				"source": r.Source,
				"page":   strconv.Itoa(r.Page),
			},
			// pgvector reports an L2 distance; negate it so larger still
			// means closer, matching the chromem backend.
			Similarity: float32(-r.Distance),
		})
	}
	return results, nil
}
