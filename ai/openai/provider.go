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
	"log/slog"

	"github.com/competiq/competiq-go/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages embedder and generator instances sharing one usage tracker.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	generator *Generator
	usage     *ai.UsageTracker
	logger    *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	usage := ai.NewUsageTracker()

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config, usage)
	if err != nil {
		return nil, err
	}

	// Create generator (using internal constructor for concrete type)
	generator, err := newGenerator(config, usage)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		generator: generator,
		usage:     usage,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the completion service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Usage returns the tracker shared by the provider's services.
func (p *Provider) Usage() *ai.UsageTracker {
	return p.usage
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

// apiToken returns the configured key, or a placeholder accepted by local
// OpenAI-compatible services that skip authentication.
func apiToken(config *ai.Config) string {
	if config.APIKey != "" {
		return config.APIKey
	}
	return "none"
}
