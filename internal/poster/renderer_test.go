package poster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"plain":              "plain",
		"  spaced   out  ":   "spaced out",
		"émigré★player":      "migrplayer",
		"👑 King":             "King",
		"🎮🎮🎮":                "Player",
		"":                   "Player",
		"tab\tand\nnewline":  "tab and newline",
		"mixed 日本語 text":     "mixed text",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeName(in), "input %q", in)
	}
}

func TestExtractFontURL(t *testing.T) {
	css := `@font-face {
  font-family: 'Orbitron';
  src: url(https://fonts.gstatic.com/s/orbitron/v31/abc.ttf) format('truetype');
}`
	assert.Equal(t, "https://fonts.gstatic.com/s/orbitron/v31/abc.ttf", extractFontURL(css))
	assert.Empty(t, extractFontURL("no urls here"))
	assert.Empty(t, extractFontURL("url(https://example.com/font.woff2)"))
}

func TestListTemplates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "notes.txt", "e.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	got, err := listTemplates(dir)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	for _, p := range got {
		assert.NotContains(t, p, "notes.txt")
		assert.NotContains(t, p, "e.webp")
	}
}

func TestScaleToFit(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 1600, 600))
	scaled := scaleToFit(big, 800, 600)
	b := scaled.Bounds()
	assert.Equal(t, 800, b.Dx())
	assert.Equal(t, 300, b.Dy(), "aspect ratio must be preserved")

	small := image.NewRGBA(image.Rect(0, 0, 400, 300))
	same := scaleToFit(small, 800, 600)
	assert.Equal(t, 400, same.Bounds().Dx(), "images inside the cap stay untouched")
	assert.Equal(t, 300, same.Bounds().Dy())
}

// TestRenderWithBundledAssets exercises the full pipeline against a generated
// template and a real bundled font, when one is available in testdata.
func TestRenderWithBundledAssets(t *testing.T) {
	fontsDir := "testdata/fonts"
	if entries, err := os.ReadDir(fontsDir); err != nil || len(entries) == 0 {
		t.Skip("no bundled test fonts")
	}

	dir := t.TempDir()
	tplDir := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(tplDir, 0o755))

	img := image.NewRGBA(image.Rect(0, 0, 640, 360))
	for y := 0; y < 360; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{20, 20, 40, 255})
		}
	}
	f, err := os.Create(filepath.Join(tplDir, "bg.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	r := New(tplDir, filepath.Join(cwd, fontsDir))
	out, err := r.Render(Info{
		ServerName: "Test Server",
		Round:      "Final",
		Team1:      "Alpha",
		Team2:      "Bravo",
		TimeUTC:    "15:00 UTC",
		Date:       "01/09/2026",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(out) })

	of, err := os.Open(out)
	require.NoError(t, err)
	defer of.Close()
	decoded, err := png.Decode(of)
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), maxWidth)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), maxHeight)
}

func TestPickTemplateEmptyDir(t *testing.T) {
	r := New(t.TempDir(), t.TempDir())
	_, err := r.pickTemplate()
	assert.ErrorContains(t, err, "no template images")
}

// One Renderer and one fontLoader serve every handler goroutine, so their
// shared state must survive simultaneous use (run with -race).
func TestFontCacheConcurrent(t *testing.T) {
	l := newFontLoader(t.TempDir())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(gid int) {
			defer wg.Done()
			family := []string{"Orbitron", "Share Tech Mono"}[gid%2]
			for n := 0; n < 200; n++ {
				l.store(family, nil)
				_, _ = l.cached(family)
				_, _ = l.cached("missing")
			}
		}(g)
	}
	wg.Wait()

	if _, ok := l.cached("Orbitron"); !ok {
		t.Fatal("cache lost an entry")
	}
}

func TestPickTemplateConcurrent(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	r := New(dir, t.TempDir())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				tpl, err := r.pickTemplate()
				if err != nil || tpl == "" {
					t.Error("pickTemplate failed under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
