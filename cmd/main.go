package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	"pdfchat/internal/helper"
	"pdfchat/internal/llmservice"
	"pdfchat/internal/objectstore"
	"pdfchat/internal/rag"
	"pdfchat/internal/session"
	"pdfchat/internal/store"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	provision := flag.Bool("provision", false, "Create the vector index and exit")
	filePath := flag.String("file", "", "Path to a document to ingest")
	query := flag.String("query", "", "Question to answer (one-shot)")
	chat := flag.Bool("chat", false, "Interactive chat session")
	download := flag.String("download", "", "Download an archived document by name")
	verbose := flag.Bool("verbose", false, "Print retrieved matches")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()

	switch {
	case *provision:
		provisionStore(ctx, cfg)
	case *filePath != "":
		ingestFile(ctx, cfg, *filePath)
	case *query != "":
		answerQuery(ctx, cfg, *query, *verbose)
	case *chat:
		chatLoop(ctx, cfg)
	case *download != "":
		downloadDocument(ctx, cfg, *download)
	default:
		log.Fatal().Msg("Please provide one of -provision, -file, -query, -chat or -download")
	}
}

// provisionStore creates the vector index. Idempotent; run once per
// deployment, never as part of request handling.
func provisionStore(ctx context.Context, cfg *config.Config) {
	vs, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to vector store")
	}
	defer vs.Close(ctx)

	if err := vs.Provision(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error provisioning vector index")
	}
	log.Info().Str("backend", cfg.Store.Backend).Msg("Vector index ready")
}

func ingestFile(ctx context.Context, cfg *config.Config, filePath string) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Msgf("Error reading file: %s", filePath)
	}

	pipeline, cleanup := newPipeline(ctx, cfg)
	defer cleanup()

	name := filepath.Base(filePath)
	count, err := pipeline.Ingest(ctx, data, name)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}

	fmt.Printf("Processed %s: %d chunks stored, original archived.\n", name, count)
}

func answerQuery(ctx context.Context, cfg *config.Config, query string, verbose bool) {
	pipeline, cleanup := newPipeline(ctx, cfg)
	defer cleanup()

	answer, matches, err := pipeline.Query(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering query")
	}

	if verbose {
		helper.PrettyPrint(matches)
	}
	fmt.Printf("%s\n", answer)
}

func chatLoop(ctx context.Context, cfg *config.Config) {
	pipeline, cleanup := newPipeline(ctx, cfg)
	defer cleanup()

	sess := session.New()
	log.Debug().Str("session", sess.ID()).Msg("Session started")

	fmt.Println("Ask questions about the ingested documents. Empty line to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}

		answer, _, err := pipeline.Query(ctx, question)
		if err != nil {
			log.Error().Err(err).Msg("Query failed")
			continue
		}
		sess.Record(question, answer)
		fmt.Printf("\n%s\n\n", answer)
	}

	log.Info().Str("session", sess.ID()).Int("entries", sess.Len()).Msg("Session ended")
}

func downloadDocument(ctx context.Context, cfg *config.Config, name string) {
	objects, err := objectstore.New(&cfg.ObjectStore)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to object store")
	}

	data, err := objects.Get(ctx, name)
	if err != nil {
		log.Fatal().Err(err).Msg("Error downloading document")
	}

	out := "_" + name
	if err := os.WriteFile(out, data, 0644); err != nil {
		log.Fatal().Err(err).Msgf("Error writing file: %s", out)
	}
	fmt.Printf("Saved %s (%d bytes).\n", out, len(data))
}

// newPipeline wires the configured collaborators into a RAG pipeline and
// returns it with a cleanup func closing the underlying clients.
func newPipeline(ctx context.Context, cfg *config.Config) (*rag.RAG, func()) {
	vs, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to vector store")
	}

	objects, err := objectstore.New(&cfg.ObjectStore)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to object store")
	}

	embedder, err := embedding.NewCohereEmbedder(cfg.Cohere.APIKey, cfg.Cohere.BaseURL, cfg.Cohere.EmbeddingModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	generator, err := llmservice.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing generator")
	}

	cleanup := func() {
		generator.Close()
		vs.Close(ctx)
	}
	return rag.NewRAG(vs, objects, embedder, generator, cfg), cleanup
}
