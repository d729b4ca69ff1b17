package view

import (
	"fmt"

	"graphfield/pkg/geometry"
)

func checkZoomFactor(k float64) error {
	if !isFinite(k) || k < 0 || k >= 1 {
		return fmt.Errorf("%w: %g", ErrInvalidZoomFactor, k)
	}
	return nil
}

// ZoomReset shows the whole logical space again.
func (v *View) ZoomReset() {
	v.state.ZoomX = 0
	v.state.ZoomY = 0
	v.state.ZoomW = v.state.XRange
	v.notify()
}

// ZoomIn shrinks the visible span (window plus margins) by (1-k). The width
// change is split evenly onto ZoomX and ZoomY, which keeps the centre of a
// fixed-aspect window on the diagonal. ZoomW never goes below 0.
func (v *View) ZoomIn(k float64) error {
	if err := checkZoomFactor(k); err != nil {
		return err
	}
	v.applyWidth(v.zoomedWidth(v.span() * (1 - k)))
	return nil
}

// ZoomOut grows the visible span by 1/(1-k). It is not the exact inverse of
// ZoomIn once ZoomIn has clamped at 0.
func (v *View) ZoomOut(k float64) error {
	if err := checkZoomFactor(k); err != nil {
		return err
	}
	v.applyWidth(v.zoomedWidth(v.span() / (1 - k)))
	return nil
}

// ZoomInAt zooms in keeping the normalized point under pixel p fixed.
func (v *View) ZoomInAt(p geometry.Point2D, k float64) error {
	if err := checkZoomFactor(k); err != nil {
		return err
	}
	v.zoomAround(p, v.zoomedWidth(v.span()*(1-k)))
	return nil
}

// ZoomOutAt zooms out keeping the normalized point under pixel p fixed.
func (v *View) ZoomOutAt(p geometry.Point2D, k float64) error {
	if err := checkZoomFactor(k); err != nil {
		return err
	}
	v.zoomAround(p, v.zoomedWidth(v.span()/(1-k)))
	return nil
}

// zoomedWidth converts a new span back to a window width, clamped at 0.
func (v *View) zoomedWidth(span float64) float64 {
	return max(span-2*v.state.Margin, 0)
}

func (v *View) applyWidth(w float64) {
	delta := (v.state.ZoomW - w) / 2
	v.state.ZoomW = w
	v.state.ZoomX += delta
	v.state.ZoomY += delta
	v.notify()
}

func (v *View) zoomAround(p geometry.Point2D, w float64) {
	anchor := v.PixelToNormCoord(p.X, p.Y)
	v.state.ZoomW = w
	v.state.ZoomX = anchor.X + v.state.Margin - v.PixelToNormRel(p.X)
	v.state.ZoomY = anchor.Y + v.state.Margin - v.PixelToNormRel(p.Y)
	v.notify()
}

// SetOrigin moves the top-left of the visible window without changing its
// width. Panning past the logical extents is allowed.
func (v *View) SetOrigin(x, y float64) {
	v.state.ZoomX = x
	v.state.ZoomY = y
	v.notify()
}

// SetWindow replaces the visible window. Negative widths are clamped to 0.
func (v *View) SetWindow(x, y, w float64) {
	v.state.ZoomX = x
	v.state.ZoomY = y
	v.state.ZoomW = max(w, 0)
	v.notify()
}
