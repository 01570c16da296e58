package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentenceOfWords(prefix string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%v%v", prefix, i)
	}

	return strings.Join(words, " ") + "."
}

func TestChunkerRespectsTargetAndOverlap(t *testing.T) {
	assert := assert.New(t)

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString(sentenceOfWords(fmt.Sprintf("w%v_", i), 30))
		b.WriteString(" ")
	}

	chunker, err := NewChunker(800, 100)
	require.NoError(t, err)

	chunks, err := chunker.Chunk(b.String())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	for _, chunk := range chunks {
		assert.LessOrEqual(chunk.WordCount, 800)
		assert.Equal(len(strings.Fields(chunk.Text)), chunk.WordCount)
	}

	for i, chunk := range chunks {
		assert.Equal(i, chunk.Index)
	}

	// Each chunk starts with the 100-word tail of the previous one.
	first := strings.Fields(chunks[0].Text)
	overlap := strings.Join(first[len(first)-100:], " ")
	assert.True(strings.HasPrefix(chunks[1].Text, overlap))
}

func TestChunkerDoesNotCrossPageBoundaries(t *testing.T) {
	assert := assert.New(t)

	text := "\n\n--- Page 1 ---\n" + sentenceOfWords("one", 20) +
		"\n\n--- Page 2 ---\n" + sentenceOfWords("two", 20)

	chunks, err := DefaultChunker().Chunk(text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Contains(chunks[0].Text, "one0")
	assert.NotContains(chunks[0].Text, "two0")
	assert.Contains(chunks[1].Text, "two0")
	assert.NotContains(chunks[1].Text, "one0")
}

func TestChunkerSplitsOversizedSentences(t *testing.T) {
	assert := assert.New(t)

	// 1200 words with no sentence boundary at all.
	words := make([]string, 1200)
	for i := range words {
		words[i] = fmt.Sprintf("word%v", i)
	}

	chunks, err := DefaultChunker().Chunk(strings.Join(words, " "))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	for _, chunk := range chunks {
		assert.LessOrEqual(chunk.WordCount, 800)
	}

	// Nothing is lost: every word shows up in some chunk.
	all := strings.Join([]string{chunks[0].Text, chunks[len(chunks)-1].Text}, " ")
	assert.Contains(all, "word0")
	assert.Contains(all, "word1199")
}

func TestChunkerRejectsTinyInput(t *testing.T) {
	assert := assert.New(t)

	_, err := DefaultChunker().Chunk("Too small.")
	assert.ErrorIs(err, ErrNoChunks)

	_, err = DefaultChunker().Chunk("   ")
	assert.ErrorIs(err, ErrNoChunks)
}

func TestNewChunkerValidation(t *testing.T) {
	assert := assert.New(t)

	_, err := NewChunker(0, 0)
	assert.Error(err)

	_, err = NewChunker(100, 100)
	assert.Error(err)

	_, err = NewChunker(100, 10)
	assert.NoError(err)
}
