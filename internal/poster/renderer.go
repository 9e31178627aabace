// Package poster renders promotional match posters: a random template image
// with the server name, round, captains, and match time drawn over it.
package poster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	maxWidth  = 800
	maxHeight = 600
)

// Info is everything the renderer needs for one poster.
type Info struct {
	ServerName string
	Round      string
	Team1      string
	Team2      string
	TimeUTC    string // "15:04 UTC"
	Date       string // "02/01/2006"
}

// Renderer is shared by all handlers; rand.Rand is not safe for concurrent
// use, so draws go through the mutex.
type Renderer struct {
	templatesDir string
	fonts        *fontLoader

	mu   sync.Mutex
	rand *rand.Rand
}

func New(templatesDir, fontsDir string) *Renderer {
	return &Renderer{
		templatesDir: templatesDir,
		fonts:        newFontLoader(fontsDir),
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Renderer) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Render composites a poster and writes it as temp_poster_<unix>.png in the
// working directory, returning the path. The caller treats an error as
// "post without a poster".
func (r *Renderer) Render(info Info) (string, error) {
	tpl, err := r.pickTemplate()
	if err != nil {
		return "", err
	}

	f, err := os.Open(tpl)
	if err != nil {
		return "", err
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode template %s: %w", tpl, err)
	}

	canvas := scaleToFit(src, maxWidth, maxHeight)
	b := canvas.Bounds()
	h := b.Dy()

	display, err := r.fonts.load("Orbitron")
	if err != nil {
		return "", err
	}
	mono, err := r.fonts.load("Share Tech Mono")
	if err != nil {
		mono = display
	}

	white := color.RGBA{255, 255, 255, 255}
	yellow := color.RGBA{255, 255, 0, 255}

	drawCentered(canvas, display, h/10, info.ServerName, float64(h)*0.08, white)
	drawCentered(canvas, display, h*14/100, "ROUND "+strings.ToUpper(info.Round), float64(h)*0.35, yellow)
	vs := fmt.Sprintf("%s VS %s", SanitizeName(info.Team1), SanitizeName(info.Team2))
	drawCentered(canvas, display, h*9/100, vs, float64(h)*0.55, white)
	if info.Date != "" {
		drawCentered(canvas, mono, h*7/100, "DATE:  "+info.Date, float64(h)*0.72, white)
	}
	drawCentered(canvas, mono, h*7/100, "TIME:  "+info.TimeUTC, float64(h)*0.82, white)

	out := fmt.Sprintf("temp_poster_%d.png", time.Now().Unix())
	of, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if err := png.Encode(of, canvas); err != nil {
		of.Close()
		os.Remove(out)
		return "", err
	}
	if err := of.Close(); err != nil {
		return "", err
	}
	return out, nil
}

// pickTemplate returns a random image file from the templates directory.
func (r *Renderer) pickTemplate() (string, error) {
	candidates, err := listTemplates(r.templatesDir)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no template images in %s", r.templatesDir)
	}
	return candidates[r.intn(len(candidates))], nil
}

func listTemplates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

var reNonPrintable = regexp.MustCompile(`[^\x20-\x7E]`)
var reSpaces = regexp.MustCompile(`\s+`)

// SanitizeName strips emoji and fancy unicode from a display name so every
// poster uses the same glyph set regardless of nickname styling.
func SanitizeName(name string) string {
	s := reNonPrintable.ReplaceAllString(name, "")
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
	if s == "" {
		return "Player"
	}
	return s
}

// scaleToFit returns an RGBA copy of src no larger than w x h, preserving
// the aspect ratio with nearest-neighbour sampling.
func scaleToFit(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()

	nw, nh := sw, sh
	if sw > w || sh > h {
		rw := float64(w) / float64(sw)
		rh := float64(h) / float64(sh)
		ratio := rw
		if rh < rw {
			ratio = rh
		}
		nw = int(float64(sw) * ratio)
		nh = int(float64(sh) * ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	if nw == sw && nh == sh {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	for y := 0; y < nh; y++ {
		sy := sb.Min.Y + y*sh/nh
		for x := 0; x < nw; x++ {
			sx := sb.Min.X + x*sw/nw
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

// drawCentered draws text horizontally centered at y, with a black outline
// for legibility on busy templates.
func drawCentered(dst *image.RGBA, ttf *truetype.Font, sizePx int, text string, y float64, fill color.Color) {
	face := truetype.NewFace(ttf, &truetype.Options{Size: float64(sizePx), DPI: 72})
	defer face.Close()

	width := font.MeasureString(face, text).Ceil()
	x := (dst.Bounds().Dx() - width) / 2
	baseline := int(y) + face.Metrics().Ascent.Ceil()

	d := font.Drawer{Dst: dst, Face: face}

	black := image.NewUniform(color.RGBA{0, 0, 0, 255})
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Src = black
			d.Dot = fixed.P(x+dx, baseline+dy)
			d.DrawString(text)
		}
	}

	d.Src = image.NewUniform(fill)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}
