package paint

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"graphfield/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// arcSegmentsPerTurn controls how finely arcs are flattened into segments.
const arcSegmentsPerTurn = 96

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *opentype.Font
	bold      *opentype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regular, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		bold, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

type faceKey struct {
	size float64
	bold bool
}

// Faces are shared by every raster. opentype faces keep per-face scratch
// buffers, so facesMu is held for the whole of each text draw.
var (
	facesMu sync.Mutex
	faces   = make(map[faceKey]font.Face)
)

// Raster is a Surface drawing into an RGBA image with anti-aliased
// vector fills and Go font text.
type Raster struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	pen   Pen
	brush color.Color
	font  Font
}

// NewRaster creates a transparent raster surface of the given pixel size.
func NewRaster(width, height int) *Raster {
	width = max(width, 1)
	height = max(height, 1)
	return &Raster{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		z:     vector.NewRasterizer(width, height),
		pen:   DefaultPen,
		brush: color.Transparent,
		font:  DefaultFont,
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// WritePNG encodes the surface as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// Size implements Surface.
func (r *Raster) Size() geometry.Size {
	b := r.img.Bounds()
	return geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
}

func (r *Raster) SetPen(p Pen)           { r.pen = p }
func (r *Raster) Pen() Pen               { return r.pen }
func (r *Raster) SetBrush(c color.Color) { r.brush = c }
func (r *Raster) Brush() color.Color     { return r.brush }
func (r *Raster) SetFont(f Font)         { r.font = f }
func (r *Raster) Font() Font             { return r.font }

// FillRect implements Surface.
func (r *Raster) FillRect(rect geometry.Rect, c color.Color) {
	rect = rect.Canon()
	rr := image.Rect(
		int(math.Floor(rect.X)), int(math.Floor(rect.Y)),
		int(math.Ceil(rect.X+rect.Width)), int(math.Ceil(rect.Y+rect.Height)),
	)
	draw.Draw(r.img, rr.Intersect(r.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// DrawImage implements Surface.
func (r *Raster) DrawImage(rect geometry.Rect, img image.Image) {
	if img == nil {
		return
	}
	rect = rect.Canon()
	dst := image.Rect(
		int(math.Round(rect.X)), int(math.Round(rect.Y)),
		int(math.Round(rect.X+rect.Width)), int(math.Round(rect.Y+rect.Height)),
	)
	if dst.Empty() {
		return
	}
	draw.ApproxBiLinear.Scale(r.img, dst, img, img.Bounds(), draw.Over, nil)
}

// DrawLine implements Surface.
func (r *Raster) DrawLine(a, b geometry.Point2D) {
	r.strokeSegment(a, b)
}

// DrawArc implements Surface.
func (r *Raster) DrawArc(center geometry.Point2D, diameter, startDeg, spanDeg float64) {
	if diameter <= 0 || spanDeg == 0 {
		return
	}
	n := int(math.Ceil(math.Abs(spanDeg) / 360 * arcSegmentsPerTurn))
	pts := geometry.ArcPoints(center, diameter/2, startDeg, spanDeg, n)
	for i := 1; i < len(pts); i++ {
		r.strokeSegment(pts[i-1], pts[i])
	}
}

// FillPolygon implements Surface.
func (r *Raster) FillPolygon(pts []geometry.Point2D) {
	if len(pts) < 3 {
		return
	}
	if _, _, _, a := r.brush.RGBA(); a > 0 {
		r.fill(pts, r.brush)
	}
	for i := range pts {
		r.strokeSegment(pts[i], pts[(i+1)%len(pts)])
	}
}

// DrawText implements Surface.
func (r *Raster) DrawText(box geometry.Rect, text string) {
	if text == "" {
		return
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	face, err := cachedFace(r.font)
	if err != nil {
		return
	}
	width := font.MeasureString(face, text)
	metrics := face.Metrics()
	center := box.Canon().Center()

	// Baseline sits so the ascent/descent band is centred on the box.
	baseline := center.Y + float64(metrics.Ascent-metrics.Descent)/64/2
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(r.penColor()),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(center.X*64) - width/2,
			Y: fixed.Int26_6(baseline * 64),
		},
	}
	d.DrawString(text)
}

// cachedFace must be called with facesMu held.
func cachedFace(f Font) (font.Face, error) {
	key := faceKey{size: f.Size, bold: f.Bold}
	if face, ok := faces[key]; ok {
		return face, nil
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	src := regular
	if f.Bold {
		src = bold
	}
	size := f.Size
	if size <= 0 {
		size = DefaultFont.Size
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	faces[key] = face
	return face, nil
}

func (r *Raster) penColor() color.Color {
	if r.pen.Color == nil {
		return color.Black
	}
	return r.pen.Color
}

// strokeSegment fills the quad covering a thick segment from a to b.
func (r *Raster) strokeSegment(a, b geometry.Point2D) {
	half := math.Max(r.pen.Width, 1) / 2
	dir := b.Sub(a).Unit()
	if dir.IsZero() {
		r.fill([]geometry.Point2D{
			{X: a.X - half, Y: a.Y - half},
			{X: a.X + half, Y: a.Y - half},
			{X: a.X + half, Y: a.Y + half},
			{X: a.X - half, Y: a.Y + half},
		}, r.penColor())
		return
	}
	// Extend by half the width so consecutive segments overlap at joins.
	ext := dir.Scale(half)
	perp := geometry.Point2D{X: -dir.Y, Y: dir.X}.Scale(half)
	a, b = a.Sub(ext), b.Add(ext)
	r.fill([]geometry.Point2D{a.Add(perp), b.Add(perp), b.Sub(perp), a.Sub(perp)}, r.penColor())
}

func (r *Raster) fill(pts []geometry.Point2D, c color.Color) {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
	r.z.Draw(r.img, b, image.NewUniform(c), image.Point{})
}
