// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compose turns a validated idea into a structured blog post:
// it builds the generation prompt, hands it to an LLM provider, and parses
// the raw response back into the three expected fields.
//
// The prompt's format instructions and the parser both derive from the
// single field table below. Whatever markers the prompt promises the model,
// the parser recognises — the two cannot drift apart.
package compose

import "strings"

// Field marker names. Each appears in the model's response as a line
// prefix of the form "name:".
const (
	fieldTitle   = "blog_title"
	fieldContent = "post_content"
	fieldTags    = "tags"
)

// field pairs a marker name with the instruction shown to the model.
type field struct {
	name string
	desc string
}

// fields is the shared definition driving both BuildPrompt and
// ParseResponse. Order matters for the instructions; the parser accepts
// the fields in any order.
var fields = []field{
	{fieldTitle, "an SEO-friendly title for the post, at most 150 characters"},
	{fieldContent, "the main content of the post in Markdown; do not repeat the title"},
	{fieldTags, "a comma-separated list of 3-5 relevant hashtags"},
}

// formatInstructions renders the machine-readable output specification
// appended to every prompt.
func formatInstructions() string {
	var sb strings.Builder
	sb.WriteString("Format your response exactly as the following labelled lines, in this order, with no other text before or after:\n\n")
	for _, f := range fields {
		sb.WriteString(f.name)
		sb.WriteString(": <")
		sb.WriteString(f.desc)
		sb.WriteString(">\n")
	}
	return sb.String()
}

// markerFor reports whether a trimmed line begins a known field, and if so
// which one and what follows the marker on the same line.
func markerFor(line string) (name, rest string, ok bool) {
	for _, f := range fields {
		if strings.HasPrefix(line, f.name+":") {
			return f.name, strings.TrimSpace(line[len(f.name)+1:]), true
		}
	}
	return "", "", false
}
