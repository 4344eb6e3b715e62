package render

import "fmt"

// Viewport is the immutable pixel size of a drawable region.
type Viewport struct {
	width, height int
}

// NewViewport returns a w×h viewport. Both sides must be positive; anything
// else is a programming error and panics.
func NewViewport(w, h int) Viewport {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("render: invalid viewport %dx%d", w, h))
	}
	return Viewport{w, h}
}

func (v Viewport) Width() int  { return v.width }
func (v Viewport) Height() int { return v.height }

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.width, v.height)
}

// FrameSetup is the mutable size carried from one pass to the next.
// Copying the value copies the setup.
type FrameSetup struct {
	Width, Height int
}

// NewFrameSetup returns the default 1×1 setup.
func NewFrameSetup() FrameSetup {
	return FrameSetup{Width: 1, Height: 1}
}

// Viewport converts the setup, clamping each side to at least one pixel.
func (s FrameSetup) Viewport() Viewport {
	return NewViewport(max(s.Width, 1), max(s.Height, 1))
}

// FilterPassSetup is what a filter negotiates in Setup: the output size of
// the pass and whether the pass draws over its own input.
//
// It is built fresh by the FilterChain before every Setup call.
type FilterPassSetup struct {
	FrameSetup
	inPlace bool
	origin  Viewport
}

// NewFilterPassSetup starts a pass from the previous pass (or raw frame)
// size.
func NewFilterPassSetup(prev Viewport) FilterPassSetup {
	return FilterPassSetup{
		FrameSetup: FrameSetup{Width: prev.width, Height: prev.height},
		origin:     prev,
	}
}

// SetInPlace declares that the pass overlays its input instead of needing a
// fresh output target.
func (s *FilterPassSetup) SetInPlace() {
	s.inPlace = true
}

func (s FilterPassSetup) InPlace() bool {
	return s.inPlace
}

// Origin is the size the filter received at pass 0 of the current frame.
func (s FilterPassSetup) Origin() Viewport {
	return s.origin
}

func newFilterPassSetup(prev, origin Viewport) FilterPassSetup {
	s := NewFilterPassSetup(prev)
	s.origin = origin
	return s
}
