package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abcd…", truncate("abcdef", 5))

	// Multibyte prompts must stay valid UTF-8 after truncation.
	assert.Equal(t, "héll…", truncate("héllo wörld", 5))
	assert.Equal(t, "日本語のプ…", truncate("日本語のプロンプト", 6))
	assert.True(t, utf8.ValidString(truncate("日本語のプロンプト", 6)))
}
