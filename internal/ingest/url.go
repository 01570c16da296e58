package ingest

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"kbase/models"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jaytaylor/html2text"
)

// RemoteDocument is a document fetched from a URL, already converted to plain
// text.
type RemoteDocument struct {
	Filename  string
	Kind      models.SourceKind
	Text      string
	SizeBytes int64
}

// FetchURL downloads a remote HTML, text, or markdown document and converts it
// to plain text. The same size cap as uploads applies.
func FetchURL(rawURL string) (RemoteDocument, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RemoteDocument{}, err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return RemoteDocument{}, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return RemoteDocument{}, err
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	resp, err := client.StandardClient().Do(req)
	if err != nil {
		return RemoteDocument{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RemoteDocument{}, fmt.Errorf("fetching %v: unexpected status %v", rawURL, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxFileBytes+1))
	if err != nil {
		return RemoteDocument{}, err
	}

	if len(b) > MaxFileBytes {
		return RemoteDocument{}, fmt.Errorf("%w: %v", ErrFileTooLarge, rawURL)
	}

	contentType := resp.Header.Get("Content-Type")

	var text string
	var kind models.SourceKind
	switch {
	case strings.Contains(contentType, "text/html"):
		text, err = html2text.FromString(string(b), html2text.Options{TextOnly: true})
		if err != nil {
			return RemoteDocument{}, err
		}
		kind = models.HTMLKind
	case strings.Contains(contentType, "text/markdown"):
		text, err = DecodeText(b)
		if err != nil {
			return RemoteDocument{}, err
		}
		kind = models.MarkdownKind
	case strings.Contains(contentType, "text/plain"):
		text, err = DecodeText(b)
		if err != nil {
			return RemoteDocument{}, err
		}
		kind = models.TextKind
	default:
		return RemoteDocument{}, fmt.Errorf("%w: content type %q", ErrUnsupportedType, contentType)
	}

	if strings.TrimSpace(text) == "" {
		return RemoteDocument{}, fmt.Errorf("%w: %v", ErrNoText, rawURL)
	}

	return RemoteDocument{
		Filename:  remoteFilename(u),
		Kind:      kind,
		Text:      text,
		SizeBytes: int64(len(b)),
	}, nil
}

func remoteFilename(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return u.Host
	}

	return name
}
