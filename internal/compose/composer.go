// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"context"
	"fmt"
	"log/slog"

	"thoughtpress/internal/models"
)

// Generator issues a single text-completion call. *ai.Registry satisfies it;
// tests substitute stubs.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Composer runs the generation pipeline: prompt construction, one provider
// call, response parsing, schema validation. Failures from each stage keep
// their type so the handler can map them to the right HTTP status.
type Composer struct {
	gen Generator
}

// NewComposer creates a Composer backed by the given generator.
func NewComposer(gen Generator) *Composer {
	return &Composer{gen: gen}
}

// Compose turns a validated idea into a validated BlogPost draft.
// Exactly one provider call is made; no retries on any failure.
func (c *Composer) Compose(ctx context.Context, idea models.Idea) (models.BlogPost, error) {
	prompt := BuildPrompt(idea)

	raw, err := c.gen.Generate(ctx, prompt.System, prompt.User)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("generate: %w", err)
	}

	post, err := ParseResponse(raw)
	if err != nil {
		// Keep the raw response around for diagnosing prompt drift.
		slog.Error("model response did not parse", "error", err, "raw", raw)
		return models.BlogPost{}, err
	}

	if err := post.Validate(); err != nil {
		slog.Error("generated post failed schema validation", "error", err)
		return models.BlogPost{}, fmt.Errorf("generated post invalid: %w", err)
	}

	return post, nil
}
