package metadata

import (
	"fmt"
	"log"
	"strings"
	"sync"

	exiftool "github.com/barasher/go-exiftool"
)

// KeywordReader extracts IPTC/XMP keywords through a long-lived exiftool
// process. The first non-empty source wins: IPTC Keywords, then XMP
// dc:subject, then Lightroom's hierarchical subject (pipe-delimited, only
// the last path segment is kept, deduplicated).
type KeywordReader struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// NewKeywordReader starts the exiftool helper. An error here means the
// binary is not installed; callers should log and continue without
// keyword support.
func NewKeywordReader() (*KeywordReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool unavailable: %w", err)
	}
	return &KeywordReader{et: et}, nil
}

func (kr *KeywordReader) Close() {
	kr.mu.Lock()
	defer kr.mu.Unlock()
	if kr.et != nil {
		if err := kr.et.Close(); err != nil {
			log.Printf("[metadata] error closing exiftool: %v", err)
		}
		kr.et = nil
	}
}

// Read returns the keyword list for one file, or nil when the file
// carries none.
func (kr *KeywordReader) Read(path string) ([]string, error) {
	kr.mu.Lock()
	defer kr.mu.Unlock()
	if kr.et == nil {
		return nil, fmt.Errorf("exiftool closed")
	}

	fms := kr.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return nil, nil
	}
	fm := fms[0]
	if fm.Err != nil {
		return nil, fmt.Errorf("extract fail for %q: %w", path, fm.Err)
	}

	if kws, err := fm.GetStrings("Keywords"); err == nil && len(kws) > 0 {
		return cleanKeywords(kws), nil
	}
	if kws, err := fm.GetStrings("Subject"); err == nil && len(kws) > 0 {
		return cleanKeywords(kws), nil
	}
	if kws, err := fm.GetStrings("HierarchicalSubject"); err == nil && len(kws) > 0 {
		return lastSegments(kws), nil
	}
	return nil, nil
}

func cleanKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// lastSegments maps hierarchical keywords ("Places|Norway|Oslo") to their
// final segment, preserving first-seen order and dropping duplicates.
func lastSegments(kws []string) []string {
	seen := make(map[string]bool, len(kws))
	var out []string
	for _, k := range kws {
		parts := strings.Split(k, "|")
		leaf := strings.TrimSpace(parts[len(parts)-1])
		if leaf == "" || seen[leaf] {
			continue
		}
		seen[leaf] = true
		out = append(out, leaf)
	}
	return out
}
