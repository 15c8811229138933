package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
)

// SurfaceHeight is the fixed logical height of the capture surface.
// Width is taken from the container at construction; resizing after
// that is unsupported.
const SurfaceHeight = 200

// ErrEmptySignature rejects saving a capture with no recorded strokes.
// This is a precondition, not a failure path: callers disable save
// until at least one stroke exists.
var ErrEmptySignature = pkgerrors.New(pkgerrors.CodeValidation, "signature has no strokes")

// Point is one pointer-position sample on the capture surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is a contiguous pointer-down..pointer-up sample sequence.
type Stroke []Point

// Capture accumulates freehand strokes and renders them to an opaque
// image payload. It holds no persistence; the payload goes straight to
// the caller.
type Capture struct {
	width   int
	strokes []Stroke
}

// NewCapture creates an empty capture surface of the given width.
func NewCapture(width int) *Capture {
	if width <= 0 {
		width = 400
	}
	return &Capture{width: width}
}

// AddStroke records one completed stroke. Empty strokes are ignored.
func (c *Capture) AddStroke(stroke Stroke) {
	if len(stroke) == 0 {
		return
	}
	copied := make(Stroke, len(stroke))
	copy(copied, stroke)
	c.strokes = append(c.strokes, copied)
}

// Clear discards all strokes and resets to the initial empty state.
func (c *Capture) Clear() {
	c.strokes = nil
}

// HasStrokes reports whether saving is currently allowed.
func (c *Capture) HasStrokes() bool {
	return len(c.strokes) > 0
}

// Save renders the strokes and returns a self-contained data-URI image
// payload. Everything downstream treats the payload as opaque.
func (c *Capture) Save() (string, error) {
	if !c.HasStrokes() {
		return "", ErrEmptySignature
	}

	canvas := image.NewRGBA(image.Rect(0, 0, c.width, SurfaceHeight))
	ink := color.RGBA{A: 255}

	for _, stroke := range c.strokes {
		if len(stroke) == 1 {
			plot(canvas, int(stroke[0].X), int(stroke[0].Y), ink)
			continue
		}
		for i := 1; i < len(stroke); i++ {
			drawLine(canvas,
				int(stroke[i-1].X), int(stroke[i-1].Y),
				int(stroke[i].X), int(stroke[i].Y),
				ink)
		}
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, canvas); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "encode signature image")
	}

	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

// drawLine rasterizes a segment with Bresenham's algorithm.
func drawLine(canvas *image.RGBA, x0, y0, x1, y1 int, ink color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(canvas, x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func plot(canvas *image.RGBA, x, y int, ink color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(canvas.Bounds()) {
		return
	}
	canvas.SetRGBA(x, y, ink)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
