package ingest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"kbase/internal/retrieval"
)

// maxSentenceWords is the point at which a run of text with no sentence
// boundary gets split by force.
const maxSentenceWords = 500

// minChunkWords drops trailing fragments too short to be worth indexing.
const minChunkWords = 10

var ErrNoChunks = errors.New("no valid chunks created")

var (
	pageMarker = regexp.MustCompile(`\n?--- Page \d+ ---\n`)
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)
)

// Chunker splits extracted text into overlapping chunks sized for embedding.
// Chunks never cross page boundaries.
type Chunker struct {
	targetWords  int
	overlapWords int
}

func NewChunker(targetWords, overlapWords int) (*Chunker, error) {
	if targetWords <= 0 {
		return nil, fmt.Errorf("targetWords must be greater than 0")
	}

	if overlapWords >= targetWords {
		return nil, fmt.Errorf("targetWords must be greater than overlapWords")
	}

	return &Chunker{
		targetWords:  targetWords,
		overlapWords: overlapWords,
	}, nil
}

// DefaultChunker targets 800-word chunks with a 100-word overlap.
func DefaultChunker() *Chunker {
	chunker, _ := NewChunker(800, 100)
	return chunker
}

// Chunk splits text into sentence-aligned chunks. Sentences accumulate until
// the target word count is reached; each new chunk starts with the tail of the
// previous one for context.
func (c *Chunker) Chunk(text string) ([]retrieval.Chunk, error) {
	if len(strings.TrimSpace(text)) < minChunkWords {
		return nil, fmt.Errorf("%w: text too short or empty", ErrNoChunks)
	}

	var chunks []retrieval.Chunk
	for _, section := range pageMarker.Split(text, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}

		chunks = c.chunkSection(section, chunks)
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	return chunks, nil
}

func (c *Chunker) chunkSection(section string, chunks []retrieval.Chunk) []retrieval.Chunk {
	var current []string

	emit := func() {
		chunks = append(chunks, retrieval.Chunk{
			Text:      strings.Join(current, " "),
			Index:     len(chunks),
			WordCount: len(current),
		})
	}

	for _, sentence := range splitSentences(section) {
		for _, words := range splitOversized(strings.Fields(sentence)) {
			if len(current)+len(words) > c.targetWords && len(current) > 0 {
				emit()

				// Keep the overlap for context.
				overlap := current[max(0, len(current)-c.overlapWords):]
				current = append(append([]string{}, overlap...), words...)
				continue
			}

			current = append(current, words...)
		}
	}

	// Don't forget the last chunk of the section.
	if len(current) > minChunkWords {
		emit()
	}

	return chunks
}

func splitSentences(section string) []string {
	sentences := sentenceRe.FindAllString(section, -1)

	out := sentences[:0]
	for _, sentence := range sentences {
		if s := strings.TrimSpace(sentence); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// splitOversized halves word runs until each piece fits in a sentence budget.
func splitOversized(words []string) [][]string {
	if len(words) <= maxSentenceWords {
		return [][]string{words}
	}

	mid := len(words) / 2

	return append(splitOversized(words[:mid]), splitOversized(words[mid:])...)
}
