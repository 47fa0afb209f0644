package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docuchat/internal/chunker"
	"docuchat/internal/config"
	"docuchat/internal/embedding"
	"docuchat/internal/helper"
	"docuchat/internal/llmservice"
	"docuchat/internal/loader"
	"docuchat/internal/models"
	"docuchat/internal/rag"
	"docuchat/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	docsDir := flag.String("docs", "", "Override the document folder from the config")
	query := flag.String("query", "", "Run a single query and exit")
	noIngest := flag.Bool("no-ingest", false, "Skip ingestion, query the existing index")
	dryRun := flag.Bool("dry-run", false, "Load and chunk documents without embedding or storing")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *docsDir != "" {
		cfg.DocsDir = *docsDir
	}

	ctx := context.Background()

	if *dryRun {
		dryRunIngest(cfg)
		return
	}

	st := buildStore(cfg)

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	// Model selection runs once per process; the outcome is cached in the
	// RAG object for every subsequent generation call.
	model := cfg.LLM.Model
	if model == "" {
		lister := llmservice.NewModelLister(&cfg.LLM)
		model = llmservice.SelectModel(ctx, lister, cfg.PreferredModels, models.DefaultInferenceModel)
	}
	log.Info().Str("model", model).Msg("Using generation model")

	r := rag.NewRAG(st, embedder, llmservice.NewClient(&cfg.LLM), cfg, model)

	if !*noIngest {
		n, err := r.Ingest(ctx, cfg.DocsDir)
		switch {
		case errors.Is(err, rag.ErrNoDocuments):
			log.Warn().Str("dir", cfg.DocsDir).Msg("No document content found, keeping existing index")
		case err != nil:
			log.Fatal().Err(err).Msg("Error ingesting documents")
		default:
			log.Info().Int("chunks", n).Msg("Ingest complete")
		}
	}

	if *query != "" {
		if err := runQuery(ctx, r, *query); err != nil {
			log.Fatal().Err(err).Msg("Error querying")
		}
		return
	}

	interactiveLoop(ctx, r)
}

func buildStore(cfg *config.Config) store.Store {
	switch cfg.Store.Backend {
	case "postgres":
		st, err := store.NewPostgresStore(&cfg.Store)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to postgres store")
		}
		return st
	default:
		if !cfg.Store.InMemory {
			if err := helper.CreateFolder(cfg.Store.Path); err != nil {
				log.Fatal().Err(err).Msg("Error creating store folder")
			}
		}
		st, err := store.NewChromemStore(cfg.Store.Path, cfg.Store.Collection, cfg.Store.InMemory)
		if err != nil {
			log.Fatal().Err(err).Msg("Error opening vector store")
		}
		return st
	}
}

// dryRunIngest prints what an ingest would index, without touching the
// embedding service or the store.
func dryRunIngest(cfg *config.Config) {
	pages, err := loader.Load(cfg.DocsDir, cfg.Extensions)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading documents")
	}
	if len(pages) == 0 {
		log.Warn().Str("dir", cfg.DocsDir).Msg("No document content found")
		return
	}
	chunks := chunker.Split(pages, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)

	type chunkSummary struct {
		ChunkID int    `json:"chunk_id"`
		Source  string `json:"source"`
		Page    int    `json:"page"`
		Length  int    `json:"length"`
	}
	summaries := make([]chunkSummary, len(chunks))
	for i, c := range chunks {
		summaries[i] = chunkSummary{ChunkID: c.ChunkID, Source: c.Source, Page: c.PageNumber, Length: len(c.Content)}
	}
	helper.PrettyPrint(summaries)
	log.Info().Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Dry run complete")
}

func runQuery(ctx context.Context, r *rag.RAG, question string) error {
	response, err := r.Query(ctx, question)
	if err != nil {
		return err
	}
	printResponse(response)
	return nil
}

func interactiveLoop(ctx context.Context, r *rag.RAG) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nAsk a question (or 'quit'): ")
		if !scanner.Scan() {
			return
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if q := strings.ToLower(question); q == "quit" || q == "exit" {
			return
		}

		response, err := r.Query(ctx, question)
		if err != nil {
			// Per-request failure: report and keep the loop alive.
			log.Error().Err(err).Msg("Error answering question")
			continue
		}
		printResponse(response)
	}
}

func printResponse(response *models.PromptResponse) {
	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n", response.Source)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Content)
}
