package rules

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxPresetSize bounds remote preset downloads.
const maxPresetSize = 1 << 20

// fetcher downloads remote presets referenced from extends.
type fetcher struct {
	httpClient *http.Client
}

func newFetcher() *fetcher {
	return &fetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (f *fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ValidateSource(url); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching preset %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching preset %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPresetSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading preset %s: %w", url, err)
	}
	if len(data) > maxPresetSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrPresetTooLarge, url, maxPresetSize)
	}
	return data, nil
}

// mergeEntries overlays child on base. An entry already in base is replaced
// in place, so it keeps the base's position; new entries are appended in
// child order. Neither input is modified.
func mergeEntries(base, child []Entry) []Entry {
	merged := append([]Entry(nil), base...)

	pos := make(map[string]int, len(merged))
	for i, e := range merged {
		pos[e.Name] = i
	}

	for _, e := range child {
		if i, ok := pos[e.Name]; ok {
			merged[i] = e
			continue
		}
		pos[e.Name] = len(merged)
		merged = append(merged, e)
	}

	return merged
}

// ValidateSource rejects empty sources and plain-HTTP URLs.
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("empty preset source")
	}
	if isURL(source) && !strings.HasPrefix(source, "https://") {
		return fmt.Errorf("insecure URL (must use HTTPS): %s", source)
	}
	return nil
}

// isURL checks if a source string is a URL.
func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
