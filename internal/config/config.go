package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pdfchat/internal/models"
)

// ErrConfiguration marks a missing or invalid required setting. It is fatal
// at startup; no client is constructed once it is reported.
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	Store       StoreConfig       `yaml:"store"`
	Cohere      CohereConfig      `yaml:"cohere"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	RAG         RAGConfig         `yaml:"rag"`
}

// StoreConfig selects and configures the vector store backend.
type StoreConfig struct {
	Backend          string `yaml:"backend"` // mongo, postgres or chromem
	MongoURI         string `yaml:"mongo_uri"`
	MongoDatabase    string `yaml:"mongo_database"`
	MongoCollection  string `yaml:"mongo_collection"`
	PostgresDSN      string `yaml:"postgres_dsn"`
	PostgresPassword string `yaml:"postgres_password"`
	ChromemPath      string `yaml:"chromem_path"`
	Debug            bool   `yaml:"debug"`
}

// CohereConfig configures the embedding provider. The same model identifier
// is used for ingestion and retrieval so the embedding spaces match.
type CohereConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ObjectStoreConfig holds the S3-compatible endpoint and the two credential
// pairs: reads and writes use separately scoped keys.
type ObjectStoreConfig struct {
	Endpoint            string `yaml:"endpoint"`
	Bucket              string `yaml:"bucket"`
	ReadKeyID           string `yaml:"read_key_id"`
	ReadApplicationKey  string `yaml:"read_application_key"`
	WriteKeyID          string `yaml:"write_key_id"`
	WriteApplicationKey string `yaml:"write_application_key"`
}

type RAGConfig struct {
	ChunkSize      int    `yaml:"chunk_size"`
	TopK           int    `yaml:"top_k"`
	NumCandidates  int    `yaml:"num_candidates"`
	VectorSize     int    `yaml:"vector_size"`
	AnswerLanguage string `yaml:"answer_language"`
}

// Load reads and validates the configuration file. It is called once at
// startup; the resulting struct is passed into components, never mutated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "mongo"
	}
	if c.Store.MongoDatabase == "" {
		c.Store.MongoDatabase = "pdf_embeddings_db"
	}
	if c.Store.MongoCollection == "" {
		c.Store.MongoCollection = "pdf_vectors"
	}
	if c.Store.ChromemPath == "" {
		c.Store.ChromemPath = "./chromemdb"
	}
	if c.Cohere.BaseURL == "" {
		c.Cohere.BaseURL = "https://api.cohere.com/compatibility/v1"
	}
	if c.Cohere.EmbeddingModel == "" {
		c.Cohere.EmbeddingModel = "multilingual-22-12"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-flash-latest"
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = models.DefaultChunkSize
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = models.DefaultTopK
	}
	if c.RAG.NumCandidates == 0 {
		c.RAG.NumCandidates = models.DefaultNumCandidates
	}
	if c.RAG.VectorSize == 0 {
		c.RAG.VectorSize = models.DefaultVectorSize
	}
	if c.RAG.AnswerLanguage == "" {
		c.RAG.AnswerLanguage = "Spanish"
	}
}

// Validate reports every missing required key at once so a broken deployment
// is fixed in a single pass.
func (c *Config) Validate() error {
	var missing []string

	switch c.Store.Backend {
	case "mongo":
		if c.Store.MongoURI == "" {
			missing = append(missing, "store.mongo_uri")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			missing = append(missing, "store.postgres_dsn")
		}
	case "chromem":
		// path has a default
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrConfiguration, c.Store.Backend)
	}

	if c.Cohere.APIKey == "" {
		missing = append(missing, "cohere.api_key")
	}
	if c.Gemini.APIKey == "" {
		missing = append(missing, "gemini.api_key")
	}
	if c.ObjectStore.Endpoint == "" {
		missing = append(missing, "object_store.endpoint")
	}
	if c.ObjectStore.Bucket == "" {
		missing = append(missing, "object_store.bucket")
	}
	if c.ObjectStore.ReadKeyID == "" {
		missing = append(missing, "object_store.read_key_id")
	}
	if c.ObjectStore.ReadApplicationKey == "" {
		missing = append(missing, "object_store.read_application_key")
	}
	if c.ObjectStore.WriteKeyID == "" {
		missing = append(missing, "object_store.write_key_id")
	}
	if c.ObjectStore.WriteApplicationKey == "" {
		missing = append(missing, "object_store.write_application_key")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required keys: %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}
