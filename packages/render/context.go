package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl32/matstack"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/gl"
)

// RenderFlags are passed down the renderable tree with every Render call.
type RenderFlags uint32

const (
	// FlagPreserveShaderProgram tells a renderable to draw with the program
	// already set on the context instead of its own. Only layered effects
	// such as drop shadows set it; a renderable that switches shaders while
	// it is set breaks the layer drawn by its caller.
	FlagPreserveShaderProgram RenderFlags = 1 << iota
)

// Renderable is anything that emits GPU work through a RenderingContext.
// Setting its shader is the first thing Render does (see UseShader), and any
// matrix it pushes is popped before it returns.
type Renderable interface {
	Render(ctx RenderingContext, flags RenderFlags)
}

// BlendMode selects how fragments combine with the destination.
type BlendMode int

const (
	BlendNone BlendMode = iota
	// BlendAlpha is regular straight-alpha compositing.
	BlendAlpha
	// BlendMultiply multiplies the destination by a premultiplied source:
	// dst * (src.rgb + 1 - src.a).
	BlendMultiply
)

// RenderingContext is the single drawing surface shared by every renderable
// and filter during a frame. Callers restore what they change: matrix pushes
// are popped, shaders are restored when layering.
type RenderingContext interface {
	// PushMatrix duplicates the top of the matrix stack.
	PushMatrix()
	// PushMatrixWith pushes m as the new top.
	PushMatrixWith(m mgl32.Mat4)
	// PopMatrix reverts to the matrix below the top. Popping the base matrix
	// does nothing.
	PopMatrix()
	Matrix() mgl32.Mat4
	Depth() int

	// Rotate, Scale and Translate post-multiply the top matrix. Angles are in
	// degrees, counter-clockwise.
	Rotate(degrees float32)
	Scale(x, y float32)
	Translate(x, y float32)
	// Identity replaces the top matrix with the identity.
	Identity()

	SetShader(p ShaderProgram)
	Shader() ShaderProgram
	Programs() *StockPrograms

	// BindTarget directs subsequent draws to t, or to the screen when t is
	// nil. It replaces the current target; bindings do not nest.
	BindTarget(t *RenderTarget)
	Target() *RenderTarget

	SetColorFilter(r, g, b, a float32)
	ColorFilter() Color
	SetBlendMode(m BlendMode)

	// Rect draws a unit square centred on the origin with the current
	// matrix, shader, colour filter and target.
	Rect()
	Clear(c Color)

	// Width and Height are the logical (device independent) dimensions used
	// for layout.
	Width() float32
	Height() float32
	// PhysicalWidth and PhysicalHeight are the screen size in pixels.
	PhysicalWidth() int
	PhysicalHeight() int
}

// WithMatrix runs fn between a PushMatrix and a PopMatrix. The pop happens
// on every exit path, panics included.
func WithMatrix(ctx RenderingContext, fn func()) {
	ctx.PushMatrix()
	defer ctx.PopMatrix()
	fn()
}

// UseShader sets p on ctx unless flags ask to preserve the current program.
// Renderables call it as their first rendering action.
func UseShader(ctx RenderingContext, p ShaderProgram, flags RenderFlags) {
	if flags&FlagPreserveShaderProgram != 0 {
		return
	}
	ctx.SetShader(p)
}

// DrawTarget draws the active region of t over the whole current target,
// scaled by scale around the centre and tinted with c. The colour filter is
// restored afterwards.
func DrawTarget(ctx RenderingContext, t *RenderTarget, scale float32, c Color) {
	tex := ctx.Programs().Texture
	ctx.SetShader(tex)
	prev := ctx.ColorFilter()
	defer ctx.SetColorFilter(prev.R, prev.G, prev.B, prev.A)
	ctx.SetColorFilter(c.R, c.G, c.B, c.A)
	tex.FeedTexture(t.Texture(), t.TextureCoords())
	WithMatrix(ctx, func() {
		ctx.Identity()
		ctx.Translate(ctx.Width()/2, ctx.Height()/2)
		ctx.Scale(ctx.Width()*scale, ctx.Height()*scale)
		ctx.Rect()
	})
}

// Context is the GL ES implementation of RenderingContext.
type Context struct {
	dev      Device
	programs *StockPrograms

	stack      *matstack.MatStack
	projection mgl32.Mat4

	shader ShaderProgram
	target *RenderTarget
	color  Color

	blend    BlendMode
	blendSet bool

	quad gl.Buffer

	// Configured logical size; zero means derived.
	logicalW, logicalH float32
	width, height      float32
	physW, physH       int

	drawCalls int
}

// NewContext returns a detached context. logicalW and logicalH fix the
// layout size; if one of them is zero it follows the screen aspect ratio,
// and if both are zero the screen size in points is used.
func NewContext(programs *StockPrograms, logicalW, logicalH float32) *Context {
	c := &Context{
		programs: programs,
		stack:    matstack.NewMatStack(),
		color:    White,
		logicalW: logicalW,
		logicalH: logicalH,
	}
	c.resize(1, 1, 0, 0)
	return c
}

// Attach binds the context to a new GL context and allocates the unit quad.
func (c *Context) Attach(dev Device) {
	c.dev = dev
	c.quad = dev.CreateBuffer()
	dev.BindBuffer(gl.ARRAY_BUFFER, c.quad)
	dev.BufferData(gl.ARRAY_BUFFER, quadBytes(
		-0.5, -0.5,
		0.5, -0.5,
		-0.5, 0.5,
		0.5, 0.5,
	), gl.STATIC_DRAW)
	c.shader = nil
	c.target = nil
	c.blendSet = false
}

// Detach releases the quad buffer and forgets the GL context.
func (c *Context) Detach() {
	if c.dev != nil && c.quad.Value != 0 {
		c.dev.DeleteBuffer(c.quad)
	}
	c.quad = gl.Buffer{}
	c.dev = nil
	c.shader = nil
	c.target = nil
}

func (c *Context) Attached() bool { return c.dev != nil }

// SetScreenSize updates the physical size and the derived logical size.
func (c *Context) SetScreenSize(e size.Event) {
	c.resize(e.WidthPx, e.HeightPx, float32(e.WidthPt), float32(e.HeightPt))
}

func (c *Context) resize(physW, physH int, ptW, ptH float32) {
	c.physW, c.physH = max(physW, 1), max(physH, 1)
	aspect := float32(c.physW) / float32(c.physH)
	w, h := c.logicalW, c.logicalH
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = w / aspect
	case h > 0:
		w = h * aspect
	case ptW > 0 && ptH > 0:
		w, h = ptW, ptH
	default:
		w, h = float32(c.physW), float32(c.physH)
	}
	c.width, c.height = w, h
	c.projection = mgl32.Ortho2D(0, w, 0, h)
}

// ToLogical maps a screen pixel position (origin top-left, as reported by
// touch events) to logical coordinates (origin bottom-left).
func (c *Context) ToLogical(px, py float32) (x, y float32) {
	x = px * c.width / float32(c.physW)
	y = c.height - py*c.height/float32(c.physH)
	return x, y
}

// ToPhysical is the inverse of ToLogical, rounded to whole pixels.
func (c *Context) ToPhysical(x, y float32) (px, py float32) {
	px = math32.Round(x * float32(c.physW) / c.width)
	py = math32.Round((c.height - y) * float32(c.physH) / c.height)
	return px, py
}

func (c *Context) Width() float32      { return c.width }
func (c *Context) Height() float32     { return c.height }
func (c *Context) PhysicalWidth() int  { return c.physW }
func (c *Context) PhysicalHeight() int { return c.physH }

// Projection maps logical coordinates to clip space.
func (c *Context) Projection() mgl32.Mat4 { return c.projection }

// ------------------------------------------------------------------
// Matrix stack

func (c *Context) PushMatrix() {
	c.stack.Push()
}

func (c *Context) PushMatrixWith(m mgl32.Mat4) {
	c.stack.Push()
	c.stack.Load(m)
}

func (c *Context) PopMatrix() {
	// The base matrix cannot be popped; matstack reports it and we ignore it.
	_ = c.stack.Pop()
}

func (c *Context) Matrix() mgl32.Mat4 { return c.stack.Peek() }
func (c *Context) Depth() int         { return len(*c.stack) }

func (c *Context) Rotate(degrees float32) {
	c.stack.RightMul(mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees)))
}

func (c *Context) Scale(x, y float32) {
	c.stack.RightMul(mgl32.Scale3D(x, y, 1))
}

func (c *Context) Translate(x, y float32) {
	c.stack.RightMul(mgl32.Translate3D(x, y, 0))
}

func (c *Context) Identity() {
	c.stack.LoadIdent()
}

// resetStack drops whatever a frame left on the stack and reports how many
// matrices were leaked.
func (c *Context) resetStack() int {
	leaked := len(*c.stack) - 1
	if leaked > 0 {
		*c.stack = (*c.stack)[:1]
	}
	c.stack.LoadIdent()
	return leaked
}

// ------------------------------------------------------------------
// Drawing state

// SetShader cleans up the current program and activates p. Setting the
// current program again does nothing; nil just releases the current one.
func (c *Context) SetShader(p ShaderProgram) {
	if p == c.shader {
		return
	}
	if c.shader != nil {
		c.shader.Cleanup()
	}
	c.shader = p
	if p != nil {
		p.Activate()
	}
}

func (c *Context) Shader() ShaderProgram    { return c.shader }
func (c *Context) Programs() *StockPrograms { return c.programs }

func (c *Context) BindTarget(t *RenderTarget) {
	if c.target != nil && c.target != t {
		c.target.End()
	}
	c.target = t
	if t == nil {
		c.dev.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{})
		c.dev.Viewport(0, 0, c.physW, c.physH)
		return
	}
	t.Begin()
}

func (c *Context) Target() *RenderTarget { return c.target }

func (c *Context) SetColorFilter(r, g, b, a float32) {
	c.color = Color{r, g, b, a}
}

func (c *Context) ColorFilter() Color { return c.color }

// SetBlendMode skips the GL calls when m is already in effect.
func (c *Context) SetBlendMode(m BlendMode) {
	if c.blendSet && c.blend == m {
		return
	}
	c.blend, c.blendSet = m, true
	switch m {
	case BlendNone:
		c.dev.Disable(gl.BLEND)
	case BlendAlpha:
		c.dev.Enable(gl.BLEND)
		c.dev.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case BlendMultiply:
		c.dev.Enable(gl.BLEND)
		c.dev.BlendFunc(gl.DST_COLOR, gl.ONE_MINUS_SRC_ALPHA)
	}
}

func (c *Context) Rect() {
	if c.shader == nil {
		return
	}
	c.shader.FeedMatrix(c.projection.Mul4(c.stack.Peek()))
	c.shader.FeedColor(c.color)
	c.shader.FeedVertices(c.quad)
	c.dev.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	c.drawCalls++
}

func (c *Context) Clear(col Color) {
	c.dev.ClearColor(col.R, col.G, col.B, col.A)
	c.dev.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawCalls is the number of Rect calls since the last ResetDrawCalls.
func (c *Context) DrawCalls() int { return c.drawCalls }

func (c *Context) ResetDrawCalls() { c.drawCalls = 0 }
