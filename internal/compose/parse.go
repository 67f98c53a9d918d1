// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"errors"
	"fmt"
	"strings"

	"thoughtpress/internal/models"
)

// ErrMalformedResponse indicates the model's output contained none of the
// expected field markers at all.
var ErrMalformedResponse = errors.New("compose: response contains no recognizable field markers")

// MissingFieldError indicates the response had recognizable structure but
// one of the three required fields was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("compose: response is missing field %q", e.Field)
}

// ParseResponse extracts the three labelled fields from the model's raw
// output. It is lenient about formatting noise — surrounding blank lines,
// code fences, extra whitespace — but strict about the fields existing.
// A field's value runs from its marker line to the next marker (or the end
// of the response), so post_content may span many lines.
func ParseResponse(raw string) (models.BlogPost, error) {
	values := make(map[string]*strings.Builder)
	var current *strings.Builder
	sawMarker := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		// Fence lines are noise from models that wrap output in code blocks.
		if strings.HasPrefix(trimmed, "```") {
			continue
		}

		if name, rest, ok := markerFor(trimmed); ok {
			sawMarker = true
			sb := &strings.Builder{}
			sb.WriteString(rest)
			values[name] = sb
			current = sb
			continue
		}

		if current != nil {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}

	if !sawMarker {
		return models.BlogPost{}, ErrMalformedResponse
	}

	get := func(name string) string {
		sb, ok := values[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(sb.String())
	}

	for _, f := range fields {
		if get(f.name) == "" {
			return models.BlogPost{}, &MissingFieldError{Field: canonicalName(f.name)}
		}
	}

	return models.BlogPost{
		Title:   get(fieldTitle),
		Content: get(fieldContent),
		Tags:    parseTags(get(fieldTags)),
	}, nil
}

// canonicalName maps wire markers to the field names used in the schema
// contract and in error messages shown to operators.
func canonicalName(marker string) string {
	switch marker {
	case fieldTitle:
		return "title"
	case fieldContent:
		return "content"
	default:
		return marker
	}
}

// parseTags splits the tags value on commas, stripping list brackets,
// quotes, and hash prefixes. Unexpected counts are not an error — the 3-5
// range is a prompt hint only.
func parseTags(raw string) []string {
	raw = strings.Trim(raw, "[]")

	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		tag = strings.Trim(tag, `"'`)
		tag = strings.TrimPrefix(tag, "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
