package render

import (
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/gl"
)

// ContextListener is told when the graphics context appears and goes away.
// GPU resources owned outside the renderer (textures, extra targets) are
// created in ContextCreated and forgotten in ContextLost.
type ContextListener interface {
	ContextCreated(dev Device)
	ContextLost()
}

// Options configure a Renderer.
type Options struct {
	// LogicalWidth and LogicalHeight fix the layout size. See NewContext
	// for how zero values are derived.
	LogicalWidth, LogicalHeight float32
	ClearColor                  Color

	// Now is the clock used for frame statistics; time.Now when nil.
	Now func() time.Time
}

// Renderer drives frames for one surface: it owns the shader registry, the
// rendering context, the frame target and the filter chain, and rebuilds
// all of them whenever the graphics context is recreated.
type Renderer struct {
	opts Options

	shaders  *ShaderManager
	programs *StockPrograms
	ctx      *Context
	chain    *FilterChain

	scene     Renderable
	listeners []ContextListener

	dev   Device
	frame *RenderTarget
	// Targets must be (re)sized before the next filtered frame.
	dirty bool

	fps   *fpsCounter
	stats Stats
}

func NewRenderer(opts Options) *Renderer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	shaders := NewShaderManager()
	programs := NewStockPrograms(shaders)
	return &Renderer{
		opts:     opts,
		shaders:  shaders,
		programs: programs,
		ctx:      NewContext(programs, opts.LogicalWidth, opts.LogicalHeight),
		chain:    NewFilterChain(),
		dirty:    true,
		fps:      newFPSCounter(opts.Now),
	}
}

func (r *Renderer) Context() *Context          { return r.ctx }
func (r *Renderer) Shaders() *ShaderManager    { return r.shaders }
func (r *Renderer) Programs() *StockPrograms   { return r.programs }
func (r *Renderer) Filters() *FilterChain      { return r.chain }
func (r *Renderer) SetScene(scene Renderable)  { r.scene = scene }
func (r *Renderer) SetClearColor(c Color)      { r.opts.ClearColor = c }
func (r *Renderer) Stats() Stats               { return r.stats }
func (r *Renderer) Device() Device             { return r.dev }
func (r *Renderer) FrameTarget() *RenderTarget { return r.frame }

// Ready reports whether a graphics context is attached.
func (r *Renderer) Ready() bool { return r.dev != nil }

// AddContextListener registers l. If a context already exists l is told
// right away.
func (r *Renderer) AddContextListener(l ContextListener) {
	r.listeners = append(r.listeners, l)
	if r.dev != nil {
		l.ContextCreated(r.dev)
	}
}

// ------------------------------------------------------------------
// Graphics context lifecycle

// ContextCreated attaches dev and rebuilds every GPU resource. A previous
// context, if any, is released first. Shader compile failures are returned
// after the rest of the setup is done; the renderer stays usable and the
// failing programs draw nothing.
func (r *Renderer) ContextCreated(dev Device) error {
	if dev == nil {
		return ErrNoDevice
	}
	if r.dev != nil {
		r.ContextLost()
	}
	r.dev = dev
	err := r.shaders.LoadAll(dev)
	r.ctx.Attach(dev)
	dev.Disable(gl.DEPTH_TEST)
	r.dirty = true

	Logger().Info("graphics context created",
		"width", r.ctx.PhysicalWidth(), "height", r.ctx.PhysicalHeight())
	for _, l := range r.listeners {
		l.ContextCreated(dev)
	}
	return err
}

// ContextLost releases every GPU resource tied to the current context.
// Everything is rebuilt by the next ContextCreated.
func (r *Renderer) ContextLost() {
	if r.dev == nil {
		return
	}
	for _, l := range r.listeners {
		l.ContextLost()
	}
	r.releaseTargets()
	r.ctx.Detach()
	r.shaders.Detach()
	r.dev = nil
	r.dirty = true
	Logger().Info("graphics context lost")
}

// Release destroys all GPU resources, shader programs included. Use it on
// shutdown while the context is still current.
func (r *Renderer) Release() {
	if r.dev == nil {
		return
	}
	r.shaders.Release()
	r.ContextLost()
}

// HandleLifecycle maps visibility changes to ContextCreated and
// ContextLost. The event's DrawContext must implement Device, as the
// x/mobile gl.Context does.
func (r *Renderer) HandleLifecycle(e lifecycle.Event) error {
	switch e.Crosses(lifecycle.StageVisible) {
	case lifecycle.CrossOn:
		dev, ok := e.DrawContext.(Device)
		if !ok {
			return errors.Wrapf(ErrNoDevice, "lifecycle draw context %T", e.DrawContext)
		}
		return r.ContextCreated(dev)
	case lifecycle.CrossOff:
		r.ContextLost()
	}
	return nil
}

// HandleSize updates the context dimensions. Targets are resized lazily by
// the next frame.
func (r *Renderer) HandleSize(e size.Event) {
	r.ctx.SetScreenSize(e)
	r.dirty = true
}

// prepareTargets sizes the frame target and the filter pool to the screen.
// The frame target is kept when the screen still fits in it. It reports
// whether a frame target is available.
func (r *Renderer) prepareTargets() bool {
	if !r.dirty {
		return r.frame != nil
	}
	r.dirty = false
	w, h := r.ctx.PhysicalWidth(), r.ctx.PhysicalHeight()
	if r.frame != nil && !r.frame.Fits(w, h) {
		r.frame.Dispose()
		r.frame = nil
	}
	if r.frame == nil {
		t, err := CreateRenderTarget(r.dev, w, h)
		if err != nil {
			Logger().Warn("frame target unavailable, filters disabled", "err", err)
			return false
		}
		r.frame = t
	}
	r.frame.SetFrameSetup(&FrameSetup{Width: w, Height: h})
	r.chain.Prepare(r.dev, w, h)
	return true
}

func (r *Renderer) releaseTargets() {
	if r.frame != nil {
		r.frame.Dispose()
		r.frame = nil
	}
	r.chain.Dispose()
}

// ------------------------------------------------------------------
// Frame

// DrawFrame renders the scene and runs the filter chain. Without filters
// the scene goes straight to the screen. Nothing happens while no context
// is attached.
func (r *Renderer) DrawFrame() {
	if r.dev == nil {
		return
	}
	ctx := r.ctx
	ctx.ResetDrawCalls()

	if r.chain.Len() > 0 && r.prepareTargets() {
		ctx.BindTarget(r.frame)
		ctx.SetBlendMode(BlendAlpha)
		ctx.Clear(r.opts.ClearColor)
		r.renderScene()

		out := r.chain.Apply(ctx, r.frame)

		ctx.BindTarget(nil)
		ctx.SetBlendMode(BlendNone)
		ctx.Clear(r.opts.ClearColor)
		DrawTarget(ctx, out, 1, White)
	} else {
		ctx.BindTarget(nil)
		ctx.SetBlendMode(BlendAlpha)
		ctx.Clear(r.opts.ClearColor)
		r.renderScene()
	}
	ctx.SetShader(nil)

	r.stats.DrawCalls = ctx.DrawCalls()
	r.stats.FPS = r.fps.tick()
	r.stats.Frames++
}

func (r *Renderer) renderScene() {
	if r.scene != nil {
		r.scene.Render(r.ctx, 0)
	}
	if leaked := r.ctx.resetStack(); leaked > 0 {
		Logger().Warn("matrix stack unbalanced after scene", "leaked", leaked)
	}
	r.ctx.SetColorFilter(1, 1, 1, 1)
}

// ------------------------------------------------------------------
// Screenshots

// Snapshot reads the screen back into a top-down image. Call it after
// DrawFrame and before the frame is published.
func (r *Renderer) Snapshot() (*image.NRGBA, error) {
	if r.dev == nil {
		return nil, ErrNoDevice
	}
	w, h := r.ctx.PhysicalWidth(), r.ctx.PhysicalHeight()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.ctx.BindTarget(nil)
	r.dev.ReadPixels(img.Pix, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE)
	return imaging.FlipV(img), nil
}

// SaveScreenshot writes a snapshot to path; the format follows the file
// extension.
func (r *Renderer) SaveScreenshot(path string) error {
	img, err := r.Snapshot()
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "save screenshot %s", path)
	}
	Logger().Info("screenshot saved", "path", path)
	return nil
}
