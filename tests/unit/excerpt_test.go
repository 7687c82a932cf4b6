package unit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge-backend/internal/generation"
)

func TestExcerpt_ShortTextPassesThrough(t *testing.T) {
	assert.Equal(t, "hello", generation.Excerpt("hello"))
	assert.Equal(t, "", generation.Excerpt(""))
}

func TestExcerpt_LongASCIITruncates(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := generation.Excerpt(long)
	assert.Len(t, got, 500)
}

func TestExcerpt_NeverSplitsARune(t *testing.T) {
	// Place a two-byte rune across the truncation boundary: byte 499 is
	// ASCII, bytes 499-500 hold "é". A byte-wise cut would keep half of
	// it and produce invalid UTF-8, which the log's text column rejects.
	s := strings.Repeat("a", 499) + "é" + strings.Repeat("b", 200)
	got := generation.Excerpt(s)

	require.True(t, utf8.ValidString(got), "excerpt must stay valid UTF-8")
	assert.LessOrEqual(t, len(got), 500)
	assert.Equal(t, strings.Repeat("a", 499), got)
}

func TestExcerpt_MultibyteText(t *testing.T) {
	s := strings.Repeat("日本語テキスト", 60)
	got := generation.Excerpt(s)
	require.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 500)
	// The cut drops at most one partial rune's worth of bytes.
	assert.Greater(t, len(got), 496)
}
