package view

import (
	"image"
	"log/slog"
	"math"

	"graphfield/internal/paint"
	"graphfield/pkg/geometry"
)

// Picture is an image stretched over the whole logical space. It hangs
// from the origin by its top-left corner.
type Picture struct {
	Object
	img image.Image
}

// NewPicture creates a picture of img anchored at the origin.
func NewPicture(img image.Image) *Picture {
	return &Picture{img: img}
}

// Image returns the picture's image.
func (p *Picture) Image() image.Image { return p.img }

// SizePx implements GraphicObject. The picture covers XRange by YRange,
// rounded to whole pixels.
func (p *Picture) SizePx(v *View) geometry.Size {
	return geometry.NewSize(
		math.Round(v.NormToPixelRel(v.state.XRange)),
		math.Round(v.NormToPixelRel(v.state.YRange)),
	)
}

// Paint implements GraphicObject.
func (p *Picture) Paint(s paint.Surface) {
	s.DrawImage(p.Bounds(), p.img)
}

// Background returns the background picture, if one is set.
func (v *View) Background() (*Picture, bool) {
	return v.background, v.background != nil
}

// SetBackground shows img below every other object. With
// usePictureCoordinates the logical space becomes the image's pixel size
// and the zoom is reset. A nil img removes the background.
func (v *View) SetBackground(img image.Image, usePictureCoordinates bool) error {
	if img == nil {
		if v.background != nil {
			v.RemoveObject(v.background)
			v.background = nil
		}
		return nil
	}
	if usePictureCoordinates {
		b := img.Bounds()
		if err := v.SetRanges(float64(b.Dx()), float64(b.Dy())); err != nil {
			return err
		}
	}
	if v.background == nil {
		v.background = NewPicture(img)
		v.objects = append([]GraphicObject{v.background}, v.objects...)
	}
	v.background.img = img
	v.place(v.background)
	v.RequestRepaint()
	slog.Debug("background set", "bounds", img.Bounds(), "picture_coordinates", usePictureCoordinates)
	return nil
}
