// Copyright (c) 2026 Inkpress. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress/inkpress/pkg/slug"
)

/*
TestSlug_From verifies the full normalization pipeline.
*/
func TestSlug_From(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple_title", "My First Article", "my-first-article"},
		{"accented_chars", "Café Déjà Vu", "cafe-deja-vu"},
		{"special_chars", "Go 1.24: What's New?", "go-1-24-what-s-new"},
		{"multi_spaces", "hello   world", "hello-world"},
		{"leading_trailing", "  trimmed  ", "trimmed"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
