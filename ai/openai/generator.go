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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/competiq/competiq-go/ai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
// Every request is a fresh conversation: the analyst system prompt plus
// the caller's rendered prompt, no carried history.
type Generator struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	counter     *ai.TokenCounter
	usage       *ai.UsageTracker
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config, usage *ai.UsageTracker) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat completions
	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(apiToken(config)),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		counter:     ai.NewTokenCounter(config.CompletionModel),
		usage:       usage,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new completion generator using the provided
// configuration. Calls are not usage-tracked; use NewProvider for tracked
// services.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config, nil)
}

// GenerateCompletion returns the model's completion for the prompt.
func (g *Generator) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("requesting completion", "promptLength", len(prompt))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(analystSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", ai.ErrEmptyCompletion
	}

	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return "", ai.ErrEmptyCompletion
	}

	if g.usage != nil {
		promptTokens := g.counter.Count(analystSystemPrompt) + g.counter.Count(prompt)
		g.usage.RecordCompletion(promptTokens, g.counter.Count(text))
	}

	g.logger.Debug("completion received", "responseLength", len(text))
	return text, nil
}
