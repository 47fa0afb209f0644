package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/models"
)

func page(text string) models.PageText {
	return models.PageText{Text: text, Source: "doc.pdf", Page: 1}
}

// expectedCount mirrors the boundary rule: ceil(max(L-O,1)/(T-O)).
func expectedCount(l, t, o int) int {
	n := l - o
	if n < 1 {
		n = 1
	}
	step := t - o
	return (n + step - 1) / step
}

func TestSplitChunkCountMatchesFormula(t *testing.T) {
	cases := []struct {
		length, size, overlap int
	}{
		{1, 2000, 500},
		{499, 2000, 500},
		{500, 2000, 500},
		{1999, 2000, 500},
		{2000, 2000, 500},
		{2001, 2000, 500},
		{2200, 2000, 500},
		{3000, 2000, 500},
		{3001, 2000, 500},
		{3500, 2000, 500},
		{10000, 2000, 500},
		{26, 10, 2},
		{100, 10, 9},
	}
	for _, tc := range cases {
		text := strings.Repeat("x", tc.length)
		chunks := Split([]models.PageText{page(text)}, tc.size, tc.overlap)
		assert.Equal(t, expectedCount(tc.length, tc.size, tc.overlap), len(chunks),
			"L=%d T=%d O=%d", tc.length, tc.size, tc.overlap)
	}
}

func TestSplitExactBoundaries(t *testing.T) {
	// 2200 chars, size 2000, overlap 500: chars [0:2000) and [1500:2200).
	text := strings.Repeat("abcde", 440)
	require.Len(t, text, 2200)

	chunks := Split([]models.PageText{page(text)}, 2000, 500)
	require.Len(t, chunks, 2)
	assert.Equal(t, text[0:2000], chunks[0].Content)
	assert.Equal(t, text[1500:2200], chunks[1].Content)
	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, "doc.pdf", chunks[1].Source)
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	chunks := Split([]models.PageText{page("short")}, 2000, 500)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].ChunkID)
}

func TestSplitIDsContiguousAcrossPages(t *testing.T) {
	pages := []models.PageText{
		{Text: strings.Repeat("a", 2200), Source: "one.pdf", Page: 1},
		{Text: "", Source: "one.pdf", Page: 2},
		{Text: strings.Repeat("b", 50), Source: "one.pdf", Page: 3},
		{Text: strings.Repeat("c", 4000), Source: "two.pdf", Page: 1},
	}
	chunks := Split(pages, 2000, 500)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkID, "ids must be a contiguous 0-based sequence")
	}

	// Chunks never cross page boundaries.
	for _, c := range chunks {
		assert.NotContains(t, c.Content, "ab")
		assert.NotContains(t, c.Content, "bc")
	}
}

func TestSplitDeterministic(t *testing.T) {
	pages := []models.PageText{page(strings.Repeat("hello world ", 400))}
	first := Split(pages, 2000, 500)
	second := Split(pages, 2000, 500)
	assert.Equal(t, first, second)
}

func TestSplitUnicodeCountsRunes(t *testing.T) {
	text := strings.Repeat("é", 15)
	chunks := Split([]models.PageText{page(text)}, 10, 2)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("é", 10), chunks[0].Content)
	assert.Equal(t, strings.Repeat("é", 7), chunks[1].Content)
}
