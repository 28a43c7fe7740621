// Package render composites cropped vertical video frames with time-synced
// animated captions, and runs the preview frame clock.
package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/styles"
)

const (
	// Output canvas is a fixed 9:16 vertical frame.
	CanvasWidth  = 720
	CanvasHeight = 1280

	// Captions are anchored at 70% of canvas height.
	captionAnchorY = 0.7

	// Base caption size before the pop animation scales it.
	captionFontSize = 70.0

	popMaxScale   = 1.2
	popGrowthRate = 2.0
)

// PopScale computes the caption pop-in scale for a word of the given age in
// seconds: 1.0 at onset, growing linearly, capped at 1.2 from age 0.1s on.
func PopScale(age float64) float64 {
	if age < 0 {
		age = 0
	}
	return math.Min(popMaxScale, 1+age*popGrowthRate)
}

// FrameGeometry maps a source frame onto the canvas: a uniform scale so the
// source height fills the canvas height exactly, and a horizontal offset that
// centers the scaled frame. Edges outside the canvas are clipped by drawing.
func FrameGeometry(srcWidth, srcHeight int) (scale, xOffset float64) {
	scale = float64(CanvasHeight) / float64(srcHeight)
	xOffset = (float64(CanvasWidth) - float64(srcWidth)*scale) / 2
	return scale, xOffset
}

var shadowColor = color.RGBA{A: 230}

// Compositor draws one output frame at a time. It is not safe for concurrent
// use; the render loop and export pipeline each own their own instance.
type Compositor struct {
	mu    sync.Mutex
	faces map[int]font.Face
}

func NewCompositor() *Compositor {
	return &Compositor{faces: make(map[int]font.Face)}
}

// Composite renders the source frame plus the currently-active caption word
// for playhead (absolute source time) onto a fresh canvas. A nil or
// zero-height source frame yields nil: the tick is skipped, never fatal.
func (c *Compositor) Composite(src image.Image, vc *clip.VideoClip, style *styles.Style, playhead float64) *image.RGBA {
	if src == nil || vc == nil {
		return nil
	}
	sb := src.Bounds()
	if sb.Dy() == 0 {
		return nil
	}

	canvas := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))

	scale, xOffset := FrameGeometry(sb.Dx(), sb.Dy())
	dstRect := image.Rect(
		int(math.Round(xOffset)), 0,
		int(math.Round(xOffset+float64(sb.Dx())*scale)), CanvasHeight,
	)
	draw.ApproxBiLinear.Scale(canvas, dstRect, src, sb, draw.Src, nil)

	if vc.Captions != nil && style != nil {
		relTime := playhead - vc.StartTimeSeconds
		if word, ok := vc.Captions.WordAt(relTime); ok {
			c.drawWord(canvas, word, style, relTime)
		}
	}

	return canvas
}

func (c *Compositor) drawWord(canvas *image.RGBA, word clip.TimedWord, style *styles.Style, relTime float64) {
	text := style.Apply(word.Word)
	if text == "" {
		return
	}

	age := relTime - word.Start
	face := c.face(captionFontSize * PopScale(age))
	if face == nil {
		return
	}

	d := &font.Drawer{Dst: canvas, Src: image.NewUniform(shadowColor), Face: face}
	width := d.MeasureString(text)

	// Pivot at the anchor point: centered horizontally, baseline at 70%
	// of canvas height.
	x := (CanvasWidth - width.Ceil()) / 2
	y := int(captionAnchorY * CanvasHeight)

	d.Dot = fixed.P(x+4, y+4)
	d.DrawString(text)

	d.Src = image.NewUniform(styles.ParseColor(style.Color))
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// face returns a cached font face for the given pixel size. The pop animation
// only spans sizes [70, 84], so the cache stays tiny.
func (c *Compositor) face(size float64) font.Face {
	key := int(math.Round(size))

	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.faces[key]; ok {
		return f
	}

	tf, err := captionTypeface()
	if err != nil {
		return nil
	}
	f, err := opentype.NewFace(tf, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	c.faces[key] = f
	return f
}
