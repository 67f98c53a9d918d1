// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the core data types of the thought-to-post
// pipeline: the validated Idea submitted by a user, the BlogPost draft
// produced by the composer, and the StoredPost persisted by the store.
package models

import (
	"errors"
	"strings"
)

// Word-count bounds for a submitted idea. Anything shorter gives the
// model too little to work with; anything longer is an essay, not an idea.
const (
	MinIdeaWords = 5
	MaxIdeaWords = 200
)

var (
	// ErrIdeaTooShort is returned when an idea has fewer than MinIdeaWords words.
	ErrIdeaTooShort = errors.New("idea must have at least 5 words")

	// ErrIdeaTooLong is returned when an idea exceeds MaxIdeaWords words.
	ErrIdeaTooLong = errors.New("idea must not exceed 200 words")
)

// Idea is a user-submitted thought that passed word-count validation.
// The zero value is not valid; construct through ValidateIdea.
type Idea struct {
	Text string
}

// ValidateIdea trims the input and checks its word count against the
// [MinIdeaWords, MaxIdeaWords] bounds. Words are whitespace-separated
// tokens. Validation happens before any network call is made, so a
// rejected idea never costs an API request.
func ValidateIdea(text string) (Idea, error) {
	trimmed := strings.TrimSpace(text)
	words := strings.Fields(trimmed)

	if len(words) < MinIdeaWords {
		return Idea{}, ErrIdeaTooShort
	}
	if len(words) > MaxIdeaWords {
		return Idea{}, ErrIdeaTooLong
	}

	return Idea{Text: trimmed}, nil
}
