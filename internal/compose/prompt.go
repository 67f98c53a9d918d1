// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"fmt"
	"strings"

	"thoughtpress/internal/models"
)

// Prompt is the pair of messages sent to the provider. System sets the
// model's role and output contract; User carries the passage.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt embeds the idea into the fixed instruction template.
// Deterministic: same idea in, same prompt out — no randomness, no I/O.
func BuildPrompt(idea models.Idea) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a creative blog writer. Given the passage from the user, write a blog post with:\n")
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("- %q: %s\n", f.name, f.desc))
	}
	sb.WriteString("\n")
	sb.WriteString(formatInstructions())

	return Prompt{
		System: sb.String(),
		User:   "Passage:\n" + idea.Text,
	}
}
