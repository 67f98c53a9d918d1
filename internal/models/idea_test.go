// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateIdea(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name: "nine words passes",
			text: "Farmers work hard every single day rain or shine",
		},
		{
			name: "exactly five words passes",
			text: "one two three four five",
		},
		{
			name: "exactly two hundred words passes",
			text: strings.Repeat("word ", 200),
		},
		{
			name:    "single word fails",
			text:    "short",
			wantErr: ErrIdeaTooShort,
		},
		{
			name:    "four words fails",
			text:    "just four little words",
			wantErr: ErrIdeaTooShort,
		},
		{
			name:    "empty string fails",
			text:    "",
			wantErr: ErrIdeaTooShort,
		},
		{
			name:    "whitespace only fails",
			text:    "   \n\t  ",
			wantErr: ErrIdeaTooShort,
		},
		{
			name:    "two hundred and one words fails",
			text:    strings.Repeat("word ", 201),
			wantErr: ErrIdeaTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idea, err := ValidateIdea(tt.text)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateIdea: got error %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ValidateIdea: unexpected error: %v", err)
			}
			if idea.Text != strings.TrimSpace(tt.text) {
				t.Errorf("idea text: got %q, want trimmed input", idea.Text)
			}
		})
	}
}

func TestValidateIdeaTrimsSurroundingWhitespace(t *testing.T) {
	idea, err := ValidateIdea("  a thought with exactly six words  \n")
	if err != nil {
		t.Fatalf("ValidateIdea: unexpected error: %v", err)
	}
	if idea.Text != "a thought with exactly six words" {
		t.Errorf("text: got %q, want trimmed content unchanged", idea.Text)
	}
}
