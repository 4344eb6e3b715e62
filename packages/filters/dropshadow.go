package filters

import "github.com/artenus-engine/Artenus-GO/packages/render"

// DropShadow draws a renderable twice: first as a flat coloured silhouette
// at an offset, then normally on top.
type DropShadow struct {
	Target           render.Renderable
	OffsetX, OffsetY float32
	Color            render.Color

	anim  interface{ Advance(dt float32) }
	touch interface{ Touch(x, y float32) bool }
}

// NewDropShadow wraps target. If target can be advanced or touched, so can
// the shadow.
func NewDropShadow(target render.Renderable, dx, dy float32, c render.Color) *DropShadow {
	d := &DropShadow{Target: target, OffsetX: dx, OffsetY: dy, Color: c}
	d.anim, _ = target.(interface{ Advance(dt float32) })
	d.touch, _ = target.(interface{ Touch(x, y float32) bool })
	return d
}

// Render draws the silhouette with the shadow program, which the target
// must keep since FlagPreserveShaderProgram is set, then the target itself
// with the caller's flags.
func (d *DropShadow) Render(ctx render.RenderingContext, flags render.RenderFlags) {
	render.UseShader(ctx, ctx.Programs().Shadow, flags)

	prev := ctx.ColorFilter()
	ctx.SetColorFilter(d.Color.R, d.Color.G, d.Color.B, d.Color.A)
	render.WithMatrix(ctx, func() {
		ctx.Translate(d.OffsetX, d.OffsetY)
		d.Target.Render(ctx, flags|render.FlagPreserveShaderProgram)
	})
	ctx.SetColorFilter(prev.R, prev.G, prev.B, prev.A)

	d.Target.Render(ctx, flags)
}

// Advance forwards to the target when it is animated.
func (d *DropShadow) Advance(dt float32) {
	if d.anim != nil {
		d.anim.Advance(dt)
	}
}

// Touch forwards to the target when it takes touches. The silhouette itself
// is never hit.
func (d *DropShadow) Touch(x, y float32) bool {
	return d.touch != nil && d.touch.Touch(x, y)
}
