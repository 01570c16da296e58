package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"kbase/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func TestKindForFilename(t *testing.T) {
	assert := assert.New(t)

	kind, err := KindForFilename("Report.PDF")
	assert.NoError(err)
	assert.Equal(models.PDFKind, kind)

	kind, err = KindForFilename("notes.txt")
	assert.NoError(err)
	assert.Equal(models.TextKind, kind)

	kind, err = KindForFilename("readme.md")
	assert.NoError(err)
	assert.Equal(models.MarkdownKind, kind)

	_, err = KindForFilename("photo.png")
	assert.ErrorIs(err, ErrUnsupportedType)
}

func TestExtractTextFile(t *testing.T) {
	assert := assert.New(t)

	path := writeTempFile(t, "notes.txt", []byte("plain utf-8 content"))

	extraction, err := NewExtractor().ExtractFile(path, "notes.txt")
	require.NoError(t, err)

	assert.Equal("plain utf-8 content", extraction.Text)
	assert.Equal(1, extraction.Pages)
	assert.Equal(models.TextKind, extraction.Kind)
}

func TestExtractRejectsOversizedFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "big.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	// Sparse file, no actual 51MB written.
	require.NoError(t, f.Truncate(MaxFileBytes+1))
	require.NoError(t, f.Close())

	_, err = NewExtractor().ExtractFile(path, "big.txt")
	assert.ErrorIs(err, ErrFileTooLarge)
}

func TestDecodeTextUTF8(t *testing.T) {
	assert := assert.New(t)

	text, err := DecodeText([]byte("hello"))
	assert.NoError(err)
	assert.Equal("hello", text)

	// BOM is stripped.
	text, err = DecodeText([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	assert.NoError(err)
	assert.Equal("hi", text)
}

func TestDecodeTextUTF16(t *testing.T) {
	assert := assert.New(t)

	text, err := DecodeText([]byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00})
	assert.NoError(err)
	assert.Equal("hi", text)
}

func TestDecodeTextLatin1Fallback(t *testing.T) {
	assert := assert.New(t)

	// "café" in Latin-1; 0xE9 is not valid UTF-8.
	text, err := DecodeText([]byte{'c', 'a', 'f', 0xE9})
	assert.NoError(err)
	assert.Equal("café", text)
}

func TestDecodeTextEmpty(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeText([]byte("   \n\t"))
	assert.ErrorIs(err, ErrNoText)
}
