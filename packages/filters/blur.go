package filters

import (
	"github.com/chewxy/math32"

	"github.com/artenus-engine/Artenus-GO/packages/render"
)

// BlurFilter blurs by rendering the frame at a fraction of its resolution
// and scaling it back up with linear filtering.
type BlurFilter struct {
	// Amount divides the resolution of the intermediate pass. Values
	// below 1 count as 1.
	Amount float32
}

func NewBlurFilter(amount float32) *BlurFilter {
	return &BlurFilter{Amount: amount}
}

// Setup shrinks the frame in pass 0 and restores the size the filter
// started from in pass 1.
func (f *BlurFilter) Setup(pass int, s *render.FilterPassSetup) bool {
	if pass == 0 {
		d := math32.Max(f.Amount, 1)
		s.Width = int(math32.Floor(float32(s.Width) / d))
		s.Height = int(math32.Floor(float32(s.Height) / d))
		return true
	}
	origin := s.Origin()
	s.Width, s.Height = origin.Width(), origin.Height()
	return false
}

// Render draws the input over the whole output in both passes.
func (f *BlurFilter) Render(pass int, s render.FilterPassSetup, ctx render.RenderingContext, input *render.RenderTarget) {
	render.DrawTarget(ctx, input, 1, render.White)
}
