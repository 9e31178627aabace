// Package poster - fonts.go
// Font resolution: remote fetch with bounded timeouts, falling back to the
// bundled fonts directory. A stalled fetch must never hold up event creation.
package poster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang/freetype/truetype"
)

const (
	cssTimeout  = 10 * time.Second
	fileTimeout = 15 * time.Second
)

// reFontURL pulls downloadable TTF urls out of a fonts CSS payload.
var reFontURL = regexp.MustCompile(`url\((https://[^)]+\.ttf)\)`)

// fontLoader caches parsed fonts. One loader serves every event-creation
// handler and each interaction runs in its own goroutine, so the cache is
// mutex-guarded.
type fontLoader struct {
	dir  string // bundled fonts
	http *http.Client

	mu    sync.Mutex
	cache map[string]*truetype.Font
}

func newFontLoader(dir string) *fontLoader {
	return &fontLoader{
		dir:   dir,
		http:  &http.Client{Timeout: fileTimeout},
		cache: make(map[string]*truetype.Font),
	}
}

func (l *fontLoader) cached(family string) (*truetype.Font, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, ok := l.cache[family]
	return f, ok
}

func (l *fontLoader) store(family string, f *truetype.Font) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[family] = f
}

// load resolves family to a parsed font: remote first, then any bundled file
// whose name contains the family, then any bundled TTF at all.
func (l *fontLoader) load(family string) (*truetype.Font, error) {
	if f, ok := l.cached(family); ok {
		return f, nil
	}

	if data, err := l.fetchRemote(family); err == nil {
		if f, perr := truetype.Parse(data); perr == nil {
			l.store(family, f)
			return f, nil
		}
	}

	f, err := l.loadBundled(family)
	if err != nil {
		return nil, err
	}
	l.store(family, f)
	return f, nil
}

// fetchRemote downloads a TTF for family from the Google Fonts CSS endpoint.
func (l *fontLoader) fetchRemote(family string) ([]byte, error) {
	cssURL := fmt.Sprintf("https://fonts.googleapis.com/css2?family=%s:wght@700",
		strings.ReplaceAll(family, " ", "+"))

	ctx, cancel := context.WithTimeout(context.Background(), cssTimeout)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, cssURL, nil)
	// A plain UA makes the endpoint serve TTF instead of woff2.
	req.Header.Set("User-Agent", "curl/8.0")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fonts css GET: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fonts css GET -> %d", resp.StatusCode)
	}

	css, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	url := extractFontURL(string(css))
	if url == "" {
		return nil, fmt.Errorf("no ttf url in css for %s", family)
	}

	fctx, fcancel := context.WithTimeout(context.Background(), fileTimeout)
	defer fcancel()
	freq, _ := http.NewRequestWithContext(fctx, http.MethodGet, url, nil)
	fresp, err := l.http.Do(freq)
	if err != nil {
		return nil, fmt.Errorf("font GET %s: %w", url, err)
	}
	defer fresp.Body.Close()
	if fresp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("font GET %s -> %d", url, fresp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(fresp.Body, 8<<20))
}

func extractFontURL(css string) string {
	if m := reFontURL.FindStringSubmatch(css); len(m) == 2 {
		return m[1]
	}
	return ""
}

func (l *fontLoader) loadBundled(family string) (*truetype.Font, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("fonts dir %s: %w", l.dir, err)
	}

	want := strings.ToLower(strings.ReplaceAll(family, " ", ""))
	var fallback string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".ttf") {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		if fallback == "" {
			fallback = path
		}
		name := strings.ToLower(strings.ReplaceAll(e.Name(), " ", ""))
		if strings.Contains(name, want) {
			return parseFontFile(path)
		}
	}
	if fallback != "" {
		return parseFontFile(fallback)
	}
	return nil, fmt.Errorf("no ttf files in %s", l.dir)
}

func parseFontFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}
