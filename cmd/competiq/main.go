// Copyright 2026 Competiq Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	competiq "github.com/competiq/competiq-go"
	"github.com/competiq/competiq-go/config"
)

func main() {
	app := &cli.App{
		Name:  "competiq",
		Usage: "Competitor analysis over your own business documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides COMPETIQ_DB_PATH)",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Provider API key (overrides COMPETIQ_OPENAI_API_KEY)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL (overrides COMPETIQ_EMBEDDING_HOST)",
			},
			&cli.StringFlag{
				Name:  "completion-host",
				Usage: "Completion service host URL (overrides COMPETIQ_COMPLETION_HOST)",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name (overrides COMPETIQ_EMBEDDING_MODEL)",
			},
			&cli.StringFlag{
				Name:  "completion-model",
				Usage: "Completion model name (overrides COMPETIQ_COMPLETION_MODEL)",
			},
			&cli.StringFlag{
				Name:  "caller",
				Usage: "Caller identity for the inbound request limiter",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents into the knowledge base",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Document category: competitor, business, or unknown",
						Value:   "unknown",
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Search stored documents by semantic similarity",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search text",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				},
			},
			{
				Name:   "report",
				Usage:  "Generate a competitor analysis report",
				Action: reportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Analysis request, e.g. \"analyze our position against Acme\"",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a markdown file instead of stdout",
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Delete every document in the knowledge base",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Confirm deletion without prompting",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show document count and accumulated API usage",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// buildService loads configuration from the environment, applies global
// flag overrides, and assembles the full service.
func buildService(c *cli.Context) (*competiq.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	if key := c.String("api-key"); key != "" {
		cfg.OpenAIAPIKey = key
	}
	if host := c.String("embedding-host"); host != "" {
		cfg.EmbeddingHost = host
	}
	if host := c.String("completion-host"); host != "" {
		cfg.CompletionHost = host
	}
	if model := c.String("embedding-model"); model != "" {
		cfg.EmbeddingModel = model
	}
	if model := c.String("completion-model"); model != "" {
		cfg.CompletionModel = model
	}

	if !cfg.HasAPIKey() {
		slog.Debug("no provider API key configured; relying on a keyless host")
	}

	service, err := competiq.NewService(cfg, competiq.WithCallerID(c.String("caller")))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}
	return service, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	// Validate arguments
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file path is required")
	}

	docType := strings.ToLower(strings.TrimSpace(c.String("type")))
	switch docType {
	case "competitor", "business", "unknown":
	default:
		return fmt.Errorf("invalid document type %q: must be one of competitor, business, unknown", c.String("type"))
	}

	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	for i := 0; i < c.NArg(); i++ {
		path := c.Args().Get(i)

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, err := service.Ingest(ctx, raw, filepath.Base(path), "", docType)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		fmt.Fprintf(os.Stderr, "Ingested %s: %d/%d chunks stored\n",
			path, result.ProcessedChunks, result.TotalChunks)
	}

	fmt.Fprintf(os.Stderr, "Knowledge base now holds %d chunks\n", service.DocumentCount())
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	results, err := service.Query(ctx, c.String("query"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching documents found.")
		return nil
	}

	for i := 0; i < len(results); i++ {
		res := results[i]
		fmt.Printf("%2d. [%.3f] %s (%s)\n", i+1, res.Score, res.Metadata.Source, res.Metadata.DocType)
		fmt.Printf("    %s\n", snippet(res.Text, 160))
	}
	return nil
}

func reportCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	fmt.Fprintln(os.Stderr, "Generating competitor analysis...")

	analysis, err := service.GenerateReport(ctx, c.String("query"))
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	output := c.String("output")
	if output == "" {
		fmt.Println(analysis)
		return nil
	}

	if err := os.WriteFile(output, []byte(renderReport(analysis)), 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", output, err)
	}

	fmt.Fprintf(os.Stderr, "Report written to %s\n", output)
	fmt.Println(snippet(analysis, 500))
	return nil
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	if !c.Bool("yes") {
		return fmt.Errorf("refusing to clear the knowledge base without --yes")
	}

	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.ClearKnowledge(ctx); err != nil {
		return fmt.Errorf("failed to clear knowledge base: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Knowledge base cleared")
	return nil
}

func statsCommand(c *cli.Context) error {
	service, err := buildService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	usage := service.Usage()
	fmt.Printf("Documents: %d\n", service.DocumentCount())
	fmt.Printf("Embedding calls: %d (%d tokens)\n", usage.EmbeddingCalls, usage.EmbeddingTokens)
	fmt.Printf("Completion calls: %d (%d prompt / %d completion tokens)\n",
		usage.CompletionCalls, usage.PromptTokens, usage.CompletionTokens)
	fmt.Printf("Total tokens: %d\n", usage.TotalTokens())
	return nil
}

// renderReport wraps a generated analysis in the report document frame.
func renderReport(analysis string) string {
	var b strings.Builder
	b.WriteString("# Competitor Analysis Report\n\n")
	b.WriteString("Generated on: " + time.Now().Format("2006-01-02 15:04:05") + "\n\n")
	b.WriteString(strings.TrimSpace(analysis))
	b.WriteString("\n")
	return b.String()
}

// snippet truncates text to at most limit runes for terminal display.
func snippet(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}
