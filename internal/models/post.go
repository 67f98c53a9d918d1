// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLen is the character cap for a generated post title.
const MaxTitleLen = 150

// FieldError reports a structured post field that is missing or invalid.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// BlogPost is a structured post draft produced by the composer. It carries
// no identity or timestamp; those are assigned by the store on insert.
type BlogPost struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Validate checks the draft against the schema contract: title present and
// within the length cap, content present, all tags non-empty. Tag count is
// deliberately unconstrained here; the 3-5 range is a prompt-level hint,
// not a schema rule.
func (p BlogPost) Validate() error {
	if p.Title == "" {
		return &FieldError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLen {
		return &FieldError{Field: "title", Reason: fmt.Sprintf("exceeds %d characters", MaxTitleLen)}
	}
	if p.Content == "" {
		return &FieldError{Field: "content", Reason: "must not be empty"}
	}
	for i, tag := range p.Tags {
		if tag == "" {
			return &FieldError{Field: "tags", Reason: fmt.Sprintf("tag %d is empty", i)}
		}
	}
	return nil
}

// StoredPost is a BlogPost that has been durably inserted. ID and CreatedAt
// are assigned by the store; the record is immutable afterwards.
type StoredPost struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatedAtRFC3339 renders the insertion timestamp as an ISO-8601 UTC string
// for transport and templates.
func (p StoredPost) CreatedAtRFC3339() string {
	return p.CreatedAt.UTC().Format(time.RFC3339)
}
