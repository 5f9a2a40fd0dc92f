package share

import (
	"image"
	"image/color"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Card is what gets drawn on an exported image.
type Card struct {
	Proverb proverb.Proverb
	// Site is shown in the footer; only its host is used.
	Site string
}

// Card geometry in CSS pixels, before scaling.
const (
	padding     = 24.0
	topBar      = 12.0
	contentTop  = padding + 16
	ruleWidth   = 4.0
	ruleGap     = 16.0
	footerSpace = 24.0
)

var (
	white     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	amber300  = color.RGBA{0xfc, 0xd3, 0x4d, 0xff}
	amber500  = color.RGBA{0xf5, 0x9e, 0x0b, 0xff}
	amber600  = color.RGBA{0xd9, 0x77, 0x06, 0xff}
	amber700  = color.RGBA{0xb4, 0x53, 0x09, 0xff}
	orange500 = color.RGBA{0xf9, 0x73, 0x16, 0xff}
	gray200   = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	gray400   = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
	gray600   = color.RGBA{0x4b, 0x55, 0x63, 0xff}
	gray700   = color.RGBA{0x37, 0x41, 0x51, 0xff}
	gray900   = color.RGBA{0x11, 0x18, 0x27, 0xff}
)

type weight int

const (
	regular weight = iota
	medium
	bold
)

type fontSet struct {
	fonts map[weight]*truetype.Font
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	w    weight
	size float64
}

var (
	loadOnce sync.Once
	loaded   *fontSet
	loadErr  error
)

func fonts() (*fontSet, error) {
	loadOnce.Do(func() {
		fs := &fontSet{fonts: map[weight]*truetype.Font{}, faces: map[faceKey]font.Face{}}
		for w, ttf := range map[weight][]byte{regular: goregular.TTF, medium: gomedium.TTF, bold: gobold.TTF} {
			f, err := truetype.Parse(ttf)
			if err != nil {
				loadErr = errors.WrapParse("ttf", "embedded font", err)
				return
			}
			fs.fonts[w] = f
		}
		loaded = fs
	})
	return loaded, loadErr
}

func (fs *fontSet) face(w weight, size float64) font.Face {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	key := faceKey{w: w, size: size}
	if f, ok := fs.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(fs.fonts[w], &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	fs.faces[key] = f
	return f
}

// textBlock is a run of wrapped lines; positions are device pixels.
type textBlock struct {
	lines      []string
	face       font.Face
	color      color.Color
	x, y       float64
	lineHeight float64
	anchorX    float64
}

type rule struct {
	x, y, w, h float64
	color      color.Color
}

type layout struct {
	fonts   *fontSet
	scale   float64
	measure *gg.Context
	width   float64
	height  float64
	texts   []textBlock
	rules   []rule
}

func (l *layout) px(v float64) float64 { return v * l.scale }

// text wraps s to width (CSS px) and returns the block height in device px.
func (l *layout) text(s string, w weight, size, lineHeight float64, c color.Color, x, y, width float64) float64 {
	face := l.fonts.face(w, l.px(size))
	l.measure.SetFontFace(face)
	lines := l.measure.WordWrap(s, l.px(width))
	if len(lines) == 0 {
		lines = []string{""}
	}
	l.texts = append(l.texts, textBlock{
		lines:      lines,
		face:       face,
		color:      c,
		x:          x,
		y:          y,
		lineHeight: l.px(lineHeight),
	})
	return float64(len(lines)) * l.px(lineHeight)
}

func newLayout(card Card, scale float64) (*layout, error) {
	fs, err := fonts()
	if err != nil {
		return nil, err
	}
	l := &layout{fonts: fs, scale: scale, measure: gg.NewContext(1, 1)}
	l.width = l.px(constants.CardWidth)

	p := card.Proverb
	x := l.px(padding)
	inner := float64(constants.CardWidth) - 2*padding
	indented := inner - ruleWidth - ruleGap
	y := l.px(contentTop)

	y += l.text("Yoruba Proverbs", medium, 14, 20, amber600, x, y, inner) + l.px(16)
	y += l.text(p.Proverb, bold, 24, 33, gray900, x, y, inner) + l.px(24)

	y += l.text("Translation:", medium, 14, 20, amber700, x, y, inner) + l.px(4)
	h := l.text(p.Translation, regular, 16, 24, gray700, x+l.px(ruleWidth+ruleGap), y, indented)
	l.rules = append(l.rules, rule{x: x, y: y, w: l.px(ruleWidth), h: h, color: amber300})
	y += h + l.px(16)

	y += l.text("Wisdom:", medium, 14, 20, gray700, x, y, inner) + l.px(4)
	h = l.text(p.Wisdom, regular, 14, 20, gray600, x+l.px(ruleWidth+ruleGap), y, indented)
	l.rules = append(l.rules, rule{x: x, y: y, w: l.px(ruleWidth), h: h, color: gray200})
	y += h + l.px(footerSpace)

	l.text("Proverb #"+strconv.Itoa(p.ID), regular, 12, 16, gray400, x, y, inner)
	h = l.text(siteHost(card.Site), regular, 12, 16, gray400, l.width-x, y, inner)
	l.texts[len(l.texts)-1].anchorX = 1
	y += h + l.px(padding)

	l.height = math.Ceil(y)
	return l, nil
}

func (l *layout) draw() *gg.Context {
	dc := gg.NewContext(int(math.Ceil(l.width)), int(l.height))
	dc.SetColor(white)
	dc.Clear()

	grad := gg.NewLinearGradient(0, 0, l.width, 0)
	grad.AddColorStop(0, amber500)
	grad.AddColorStop(1, orange500)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, l.width, l.px(topBar))
	dc.Fill()

	for _, r := range l.rules {
		dc.SetColor(r.color)
		dc.DrawRectangle(r.x, r.y, r.w, r.h)
		dc.Fill()
	}
	for _, t := range l.texts {
		dc.SetFontFace(t.face)
		dc.SetColor(t.color)
		for i, line := range t.lines {
			cy := t.y + float64(i)*t.lineHeight + t.lineHeight/2
			dc.DrawStringAnchored(line, t.x, cy, t.anchorX, 0.35)
		}
	}
	return dc
}

// Render draws the card at scale device pixels per CSS pixel. A
// non-positive scale uses constants.ImageScale.
func Render(card Card, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = constants.ImageScale
	}
	l, err := newLayout(card, scale)
	if err != nil {
		return nil, err
	}
	return l.draw().Image(), nil
}

// RenderPNG draws the card and writes it to w as PNG.
func RenderPNG(w io.Writer, card Card, scale float64) error {
	if scale <= 0 {
		scale = constants.ImageScale
	}
	l, err := newLayout(card, scale)
	if err != nil {
		return err
	}
	if err := l.draw().EncodePNG(w); err != nil {
		return errors.WrapResource("encode", "image", card.Proverb.FileName(), err)
	}
	return nil
}

func siteHost(site string) string {
	if site == "" {
		site = constants.DefaultSiteURL
	}
	if u, err := url.Parse(site); err == nil && u.Host != "" {
		return u.Host
	}
	return strings.TrimPrefix(strings.TrimPrefix(site, "https://"), "http://")
}
