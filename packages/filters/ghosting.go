package filters

import "github.com/artenus-engine/Artenus-GO/packages/render"

// ghostAlpha is the opacity of the enlarged copy.
const ghostAlpha = 0.5

// GhostingFilter overlays an enlarged, half transparent copy of the frame
// for a trailing afterimage look.
type GhostingFilter struct {
	// Amount is how much larger the ghost is than the frame; 0.1 is 10%.
	// Zero disables the ghost.
	Amount float32
}

func NewGhostingFilter(amount float32) *GhostingFilter {
	return &GhostingFilter{Amount: amount}
}

func (f *GhostingFilter) Setup(pass int, s *render.FilterPassSetup) bool {
	return false
}

func (f *GhostingFilter) Render(pass int, s render.FilterPassSetup, ctx render.RenderingContext, input *render.RenderTarget) {
	render.DrawTarget(ctx, input, 1, render.White)
	if f.Amount <= 0 {
		return
	}
	ctx.SetBlendMode(render.BlendAlpha)
	render.DrawTarget(ctx, input, 1+f.Amount, render.Color{R: 1, G: 1, B: 1, A: ghostAlpha})
}
