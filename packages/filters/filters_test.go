package filters

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/gl"

	"github.com/artenus-engine/Artenus-GO/packages/config"
	"github.com/artenus-engine/Artenus-GO/packages/render"
	"github.com/artenus-engine/Artenus-GO/packages/render/rendertest"
	"github.com/artenus-engine/Artenus-GO/packages/scene"
)

func newContext(t *testing.T) (*rendertest.Device, *render.Context) {
	t.Helper()
	dev := rendertest.NewDevice()
	shaders := render.NewShaderManager()
	programs := render.NewStockPrograms(shaders)
	require.NoError(t, shaders.LoadAll(dev))
	ctx := render.NewContext(programs, 0, 0)
	ctx.Attach(dev)
	ctx.SetScreenSize(size.Event{WidthPx: 200, HeightPx: 100})
	return dev, ctx
}

func newFrame(t *testing.T, dev *rendertest.Device) *render.RenderTarget {
	t.Helper()
	frame, err := render.CreateRenderTarget(dev, 200, 100)
	require.NoError(t, err)
	return frame
}

func TestBlurSetup(t *testing.T) {
	raw := render.NewViewport(200, 100)

	s := render.NewFilterPassSetup(raw)
	assert.True(t, NewBlurFilter(2).Setup(0, &s))
	assert.Equal(t, 100, s.Width)
	assert.Equal(t, 50, s.Height)

	s = render.NewFilterPassSetup(raw)
	assert.True(t, NewBlurFilter(1).Setup(0, &s))
	assert.Equal(t, 200, s.Width)
	assert.Equal(t, 100, s.Height)

	s = render.NewFilterPassSetup(raw)
	NewBlurFilter(0).Setup(0, &s)
	assert.Equal(t, 200, s.Width, "amounts below 1 count as 1")
}

func TestBlurThroughChain(t *testing.T) {
	dev, ctx := newContext(t)
	frame := newFrame(t, dev)
	chain := render.NewFilterChain(NewBlurFilter(4))
	chain.Prepare(dev, 200, 100)

	out := chain.Apply(ctx, frame)
	assert.NotSame(t, frame, out)
	assert.Equal(t, render.NewViewport(200, 100), out.Viewport())
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, [4]int{0, 0, 50, 25}, dev.Draws[0].Viewport)
	assert.Equal(t, [4]int{0, 0, 200, 100}, dev.Draws[1].Viewport)
	assert.Equal(t, frame.Texture().Value, dev.Draws[0].Texture)
}

func TestTintSetup(t *testing.T) {
	for _, c := range []render.Color{render.White, render.Transparent, {R: 1, A: 0.3}} {
		s := render.NewFilterPassSetup(render.NewViewport(200, 100))
		assert.False(t, NewTintFilter(c).Setup(0, &s))
		assert.True(t, s.InPlace())
		assert.Equal(t, 200, s.Width)
	}
}

func TestTintRender(t *testing.T) {
	dev, ctx := newContext(t)
	frame := newFrame(t, dev)
	chain := render.NewFilterChain(NewTintFilter(render.Color{R: 1, G: 0.5, B: 0, A: 0.5}))
	ctx.SetColorFilter(0.1, 0.2, 0.3, 0.4)

	out := chain.Apply(ctx, frame)
	assert.Same(t, frame, out)
	require.Len(t, dev.Draws, 1)
	d := dev.Draws[0]
	assert.Equal(t, ctx.Programs().Solid.Handle().Value, d.Program)
	assert.True(t, d.Blend)
	assert.Equal(t, [2]gl.Enum{gl.DST_COLOR, gl.ONE_MINUS_SRC_ALPHA}, d.BlendFunc)
	assert.Equal(t, []float32{0.5, 0.25, 0, 0.5}, d.Uniforms["color"])
	assert.Equal(t, render.Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4}, ctx.ColorFilter())
}

func TestGhostingDrawCount(t *testing.T) {
	for _, tc := range []struct {
		amount float32
		draws  int
	}{
		{0, 1},
		{0.5, 2},
	} {
		dev, ctx := newContext(t)
		frame := newFrame(t, dev)
		chain := render.NewFilterChain(NewGhostingFilter(tc.amount))
		chain.Prepare(dev, 200, 100)

		chain.Apply(ctx, frame)
		assert.Len(t, dev.Draws, tc.draws, "amount %g", tc.amount)
	}
}

func TestGhostingOverlay(t *testing.T) {
	dev, ctx := newContext(t)
	frame := newFrame(t, dev)
	chain := render.NewFilterChain(NewGhostingFilter(0.5))
	chain.Prepare(dev, 200, 100)

	chain.Apply(ctx, frame)
	require.Len(t, dev.Draws, 2)
	base, ghost := dev.Draws[0], dev.Draws[1]
	assert.False(t, base.Blend)
	assert.True(t, ghost.Blend)
	assert.Equal(t, []float32{1, 1, 1, 1}, base.Uniforms["color"])
	assert.Equal(t, []float32{1, 1, 1, 0.5}, ghost.Uniforms["color"])
	// The ghost quad is 1.5 times the logical size.
	assert.InDelta(t, base.Uniforms["mvp"][0]*1.5, ghost.Uniforms["mvp"][0], 1e-6)
}

// stubTarget records how the drop shadow drives its target.
type stubTarget struct {
	calls []targetCall
	dt    float32
}

type targetCall struct {
	flags  render.RenderFlags
	shader render.ShaderProgram
	color  render.Color
	matrix mgl32.Mat4
}

func (p *stubTarget) Render(ctx render.RenderingContext, flags render.RenderFlags) {
	p.calls = append(p.calls, targetCall{flags, ctx.Shader(), ctx.ColorFilter(), ctx.Matrix()})
}

func (p *stubTarget) Advance(dt float32) { p.dt += dt }

func TestDropShadow(t *testing.T) {
	_, ctx := newContext(t)
	target := &stubTarget{}
	shadowColor := render.Color{A: 0.6}
	d := NewDropShadow(target, 4, -4, shadowColor)

	d.Render(ctx, 0)
	require.Len(t, target.calls, 2)

	shadow, body := target.calls[0], target.calls[1]
	assert.NotZero(t, shadow.flags&render.FlagPreserveShaderProgram)
	assert.Same(t, ctx.Programs().Shadow, shadow.shader)
	assert.Equal(t, shadowColor, shadow.color)
	assert.Equal(t, mgl32.Translate3D(4, -4, 0), shadow.matrix)

	assert.Zero(t, body.flags)
	assert.Equal(t, render.White, body.color)
	assert.Equal(t, mgl32.Ident4(), body.matrix)
	assert.Equal(t, 1, ctx.Depth())

	d.Advance(0.25)
	assert.Equal(t, float32(0.25), target.dt)
}

func TestDropShadowTouch(t *testing.T) {
	sprite := scene.NewSprite(nil, 10, 10)
	var hits int
	sprite.OnTouch = func(s *scene.Sprite, x, y float32) { hits++ }

	layer := scene.NewLayer()
	caps := layer.Add(NewDropShadow(sprite, 4, -4, render.Color{A: 0.5}))
	assert.True(t, caps.Has(scene.CapTouchable))
	assert.True(t, caps.Has(scene.CapAnimatable))

	assert.True(t, layer.Touch(0, 0))
	assert.Equal(t, 1, hits)
	assert.False(t, layer.Touch(4, -9), "the silhouette is not hit")
	assert.Equal(t, 1, hits)

	plain := NewDropShadow(&stubTarget{}, 1, 1, render.Color{})
	assert.False(t, plain.Touch(0, 0))
	assert.False(t, scene.CapabilitiesOf(plain.Target).Has(scene.CapTouchable))
}

// colorSpy is an in-place filter that records the colour filter it starts
// with.
type colorSpy struct {
	seen []render.Color
}

func (f *colorSpy) Setup(pass int, s *render.FilterPassSetup) bool {
	s.SetInPlace()
	return false
}

func (f *colorSpy) Render(pass int, s render.FilterPassSetup, ctx render.RenderingContext, input *render.RenderTarget) {
	f.seen = append(f.seen, ctx.ColorFilter())
}

func TestGhostingRestoresColorFilter(t *testing.T) {
	dev, ctx := newContext(t)
	frame := newFrame(t, dev)
	spy := &colorSpy{}
	chain := render.NewFilterChain(NewGhostingFilter(0.5), spy)
	chain.Prepare(dev, 200, 100)
	ctx.SetColorFilter(1, 1, 1, 1)

	chain.Apply(ctx, frame)
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, []float32{1, 1, 1, 0.5}, dev.Draws[1].Uniforms["color"])
	assert.Equal(t, []render.Color{render.White}, spy.seen)
	assert.Equal(t, render.White, ctx.ColorFilter())
}

func TestBlurRestoresColorFilter(t *testing.T) {
	dev, ctx := newContext(t)
	frame := newFrame(t, dev)
	chain := render.NewFilterChain(NewBlurFilter(2))
	chain.Prepare(dev, 200, 100)
	ctx.SetColorFilter(0.2, 0.4, 0.6, 0.8)

	chain.Apply(ctx, frame)
	assert.Equal(t, []float32{1, 1, 1, 1}, dev.Draws[0].Uniforms["color"])
	assert.Equal(t, render.Color{R: 0.2, G: 0.4, B: 0.6, A: 0.8}, ctx.ColorFilter())
}

func TestFromConfig(t *testing.T) {
	alpha := float32(0.5)
	list, err := FromConfig([]config.Filter{
		{Type: config.FilterBlur, Amount: 3},
		{Type: config.FilterTint, Color: "#ff0000", Alpha: &alpha},
		{Type: config.FilterGhosting, Amount: 0.1},
	})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, &BlurFilter{Amount: 3}, list[0])
	tint, ok := list[1].(*TintFilter)
	require.True(t, ok)
	assert.Equal(t, float32(0.5), tint.Color.A)
	assert.IsType(t, &GhostingFilter{}, list[2])

	_, err = FromConfig([]config.Filter{{Type: "sepia"}})
	assert.Error(t, err)
}
