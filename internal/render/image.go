package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/riverfjs/regexhl-go/internal/buffer"
	"github.com/riverfjs/regexhl-go/internal/types"
)

// Image 将捕获片段绘制为位图
type Image struct {
	Palette    Palette
	Columns    int
	TabWidth   int
	Padding    int
	Background color.Color
	Foreground color.Color
	Face       font.Face
}

// NewImage returns an image renderer with an 80 column, 7x13 pixel layout.
func NewImage(p Palette) *Image {
	return &Image{
		Palette:    p,
		Columns:    80,
		TabWidth:   4,
		Padding:    8,
		Background: color.White,
		Foreground: color.Black,
		Face:       basicfont.Face7x13,
	}
}

// Render draws text, colouring each tagged segment by its group.
func (im *Image) Render(text string, segs []types.Segment) *image.RGBA {
	lines := buffer.New(im.Columns, im.TabWidth)
	for _, s := range segs {
		c := im.Foreground
		if s.Tagged() {
			c = im.Palette.Color(s.Group)
		}
		lines.Write(text[s.Range.Start:s.Range.End], c)
	}

	metrics := im.Face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	advance, _ := im.Face.GlyphAdvance('M')
	cellWidth := advance.Ceil()

	cols := max(lines.Width(), 1)
	rows := lines.Lines()
	w := 2*im.Padding + cols*cellWidth
	h := 2*im.Padding + len(rows)*lineHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(im.Background), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Face: im.Face}
	for i, row := range rows {
		d.Dot = fixed.P(im.Padding, im.Padding+i*lineHeight+ascent)
		for _, run := range row {
			d.Src = image.NewUniform(run.Color)
			d.DrawString(run.Text)
		}
	}
	return img
}

// EncodePNG renders text and writes it to w as PNG.
func (im *Image) EncodePNG(w io.Writer, text string, segs []types.Segment) error {
	return png.Encode(w, im.Render(text, segs))
}
