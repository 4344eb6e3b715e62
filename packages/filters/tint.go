package filters

import "github.com/artenus-engine/Artenus-GO/packages/render"

// TintFilter multiplies the frame by a colour. Alpha controls the
// strength: 0 leaves the frame untouched, 1 is a plain multiply.
type TintFilter struct {
	Color render.Color
}

func NewTintFilter(c render.Color) *TintFilter {
	return &TintFilter{Color: c}
}

// Setup marks the only pass in-place: the tint is drawn over the frame.
func (f *TintFilter) Setup(pass int, s *render.FilterPassSetup) bool {
	s.SetInPlace()
	return false
}

func (f *TintFilter) Render(pass int, s render.FilterPassSetup, ctx render.RenderingContext, input *render.RenderTarget) {
	ctx.SetShader(ctx.Programs().Solid)
	ctx.SetBlendMode(render.BlendMultiply)

	prev := ctx.ColorFilter()
	c := f.Color.Premultiplied()
	ctx.SetColorFilter(c.R, c.G, c.B, c.A)
	render.WithMatrix(ctx, func() {
		ctx.Identity()
		ctx.Translate(ctx.Width()/2, ctx.Height()/2)
		ctx.Scale(ctx.Width(), ctx.Height())
		ctx.Rect()
	})
	ctx.SetColorFilter(prev.R, prev.G, prev.B, prev.A)
}
