package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"docuchat/internal/models"
)

// LLMConfig describes one OpenAI-compatible (or ollama) endpoint.
// Key is resolved from the environment variable named by KeyEnv when empty.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" (default) or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	KeyEnv   string `yaml:"key_env"`
	Model    string `yaml:"model"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
	BatchSize    int `yaml:"batch_size"`
}

// StoreConfig selects and configures the vector index backend.
type StoreConfig struct {
	Backend     string `yaml:"backend"` // "chromem" (default) or "postgres"
	Path        string `yaml:"path"`
	Collection  string `yaml:"collection"`
	InMemory    bool   `yaml:"in_memory"`
	PostgresDSN string `yaml:"postgres_dsn"`
	PostgresKey string `yaml:"postgres_key"`
	Debug       bool   `yaml:"debug"`
}

type Config struct {
	DocsDir         string      `yaml:"docs_dir"`
	Extensions      []string    `yaml:"extensions"`
	EmbedLLM        LLMConfig   `yaml:"embed_llm"`
	LLM             LLMConfig   `yaml:"llm"`
	PreferredModels []string    `yaml:"preferred_models"`
	RAG             RAGConfig   `yaml:"rag"`
	Store           StoreConfig `yaml:"store"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	resolveKeys(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.DocsDir == "" {
		cfg.DocsDir = "./pdfs"
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".pdf"}
	}
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = "openai"
	}
	if cfg.EmbedLLM.KeyEnv == "" {
		cfg.EmbedLLM.KeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.KeyEnv == "" {
		cfg.LLM.KeyEnv = "OPENAI_API_KEY"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = models.DefaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = models.DefaultChunkOverlap
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = models.DefaultTopK
	}
	if cfg.RAG.BatchSize == 0 {
		cfg.RAG.BatchSize = models.DefaultBatchSize
	}
	if len(cfg.PreferredModels) == 0 {
		cfg.PreferredModels = models.DefaultPreferredModels
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "chromem"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./chromemdb"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "pdf_knowledge_base"
	}
}

func resolveKeys(cfg *Config) {
	if cfg.EmbedLLM.Key == "" {
		cfg.EmbedLLM.Key = os.Getenv(cfg.EmbedLLM.KeyEnv)
	}
	if cfg.LLM.Key == "" {
		cfg.LLM.Key = os.Getenv(cfg.LLM.KeyEnv)
	}
}

// Validate enforces startup-fatal configuration errors: a missing credential
// must stop the process before any service call is attempted.
func (c *Config) Validate() error {
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if c.EmbedLLM.Provider == "openai" && c.EmbedLLM.Key == "" {
		return fmt.Errorf("embedding API key missing: set %s or embed_llm.key", c.EmbedLLM.KeyEnv)
	}
	if c.LLM.Key == "" {
		return fmt.Errorf("generation API key missing: set %s or llm.key", c.LLM.KeyEnv)
	}
	switch c.Store.Backend {
	case "chromem", "postgres":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	if c.Store.Backend == "postgres" && c.Store.PostgresDSN == "" {
		return fmt.Errorf("store.postgres_dsn is required for the postgres backend")
	}
	return nil
}
