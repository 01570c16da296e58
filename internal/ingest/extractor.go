package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"kbase/models"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	pdf "github.com/unidoc/unipdf/v3/model"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	// MaxFileBytes is the upload size cap per document.
	MaxFileBytes = 50 << 20
	// MaxPDFPages caps how many pages a single PDF may have.
	MaxPDFPages = 1000
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds the 50MB size limit")
	ErrNoText          = errors.New("no text could be extracted")
)

var whitespace = regexp.MustCompile(`\s+`)

// InitPDFLicense configures the unipdf license from the environment. Without a
// key, PDF extraction fails at read time; other formats keep working.
func InitPDFLicense() error {
	key := os.Getenv("UNIDOC_LICENSE_KEY")
	if key == "" {
		return nil
	}

	return license.SetMeteredKey(key)
}

// Extraction is the text pulled from one document.
type Extraction struct {
	Text  string
	Pages int
	Kind  models.SourceKind
}

// KindForFilename maps a filename to its source kind by extension.
func KindForFilename(filename string) (models.SourceKind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.PDFKind, nil
	case ".txt":
		return models.TextKind, nil
	case ".md":
		return models.MarkdownKind, nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnsupportedType, filename)
	}
}

// Extractor turns uploaded files into plain text.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFile reads the file at path and returns its text. PDF pages are
// whitespace-normalized and prefixed with page markers so chunking can respect
// page boundaries.
func (e *Extractor) ExtractFile(path, filename string) (Extraction, error) {
	kind, err := KindForFilename(filename)
	if err != nil {
		return Extraction{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Extraction{}, err
	}

	if info.Size() > MaxFileBytes {
		return Extraction{}, fmt.Errorf("%w: %v is %vMB", ErrFileTooLarge, filename, info.Size()>>20)
	}

	switch kind {
	case models.PDFKind:
		return e.extractPDF(path, filename)
	default:
		return e.extractText(path, filename, kind)
	}
}

func (e *Extractor) extractPDF(path, filename string) (Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return Extraction{}, err
	}
	defer f.Close()

	reader, err := pdf.NewPdfReader(f)
	if err != nil {
		return Extraction{}, fmt.Errorf("reading PDF %v: %w", filename, err)
	}

	pages, err := reader.GetNumPages()
	if err != nil {
		return Extraction{}, fmt.Errorf("reading PDF %v: %w", filename, err)
	}

	if pages == 0 {
		return Extraction{}, fmt.Errorf("%w: %v appears to be empty or corrupted", ErrNoText, filename)
	}

	if pages > MaxPDFPages {
		return Extraction{}, fmt.Errorf("PDF %v has %v pages, maximum is %v", filename, pages, MaxPDFPages)
	}

	var b strings.Builder
	extracted := 0
	// Individual unreadable pages are skipped; only a fully unreadable PDF is
	// an error.
	for n := 1; n <= pages; n++ {
		page, err := reader.GetPage(n)
		if err != nil {
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			continue
		}

		text, err := ex.ExtractText()
		if err != nil {
			continue
		}

		text = whitespace.ReplaceAllString(strings.TrimSpace(text), " ")
		if text == "" {
			continue
		}

		fmt.Fprintf(&b, "\n\n--- Page %v ---\n%v", n, text)
		extracted++
	}

	if extracted == 0 {
		return Extraction{}, fmt.Errorf("%w from any page of %v", ErrNoText, filename)
	}

	return Extraction{Text: b.String(), Pages: pages, Kind: models.PDFKind}, nil
}

func (e *Extractor) extractText(path, filename string, kind models.SourceKind) (Extraction, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, err
	}

	text, err := DecodeText(b)
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", err, filename)
	}

	return Extraction{Text: text, Pages: 1, Kind: kind}, nil
}

// DecodeText decodes file bytes into a string: UTF-8 (BOM stripped) and UTF-16
// with BOM are handled directly, anything else falls back to Latin-1.
func DecodeText(b []byte) (string, error) {
	if len(b) >= 2 && (bytes.HasPrefix(b, []byte{0xFF, 0xFE}) || bytes.HasPrefix(b, []byte{0xFE, 0xFF})) {
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		b = decoded
	} else if utf8.Valid(b) {
		b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	} else {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		b = decoded
	}

	text := string(b)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	return text, nil
}
