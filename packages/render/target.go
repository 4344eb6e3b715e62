package render

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/mobile/gl"
)

// RenderTarget is an off-screen framebuffer: an RGBA texture plus a depth
// render buffer of fixed capacity, of which only the active FrameSetup
// region is drawn to and sampled.
//
// Downsampled passes shrink the active region instead of reallocating, so a
// target allocated once per screen size serves every pass.
type RenderTarget struct {
	dev Device

	fbo     gl.Framebuffer
	texture gl.Texture
	depth   gl.Renderbuffer

	fboWidth, fboHeight int

	setup     FrameSetup
	texCoords [8]float32
	disposed  bool
}

// CreateRenderTarget allocates a w×h target. On failure everything allocated
// so far is released and a nil target is returned with the error; callers
// are expected to drop the effect that needed it.
func CreateRenderTarget(dev Device, w, h int) (*RenderTarget, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "render target %dx%d", w, h)
	}
	t := &RenderTarget{dev: dev, fboWidth: w, fboHeight: h}

	t.texture = dev.CreateTexture()
	dev.ActiveTexture(gl.TEXTURE0)
	dev.BindTexture(gl.TEXTURE_2D, t.texture)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	dev.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	dev.BindTexture(gl.TEXTURE_2D, gl.Texture{})

	t.depth = dev.CreateRenderbuffer()
	dev.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	dev.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, w, h)
	dev.BindRenderbuffer(gl.RENDERBUFFER, gl.Renderbuffer{})

	t.fbo = dev.CreateFramebuffer()
	dev.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	dev.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.texture, 0)
	dev.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)
	status := dev.CheckFramebufferStatus(gl.FRAMEBUFFER)
	dev.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{})
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Dispose()
		return nil, errors.Errorf("render: framebuffer %dx%d incomplete: 0x%x", w, h, uint32(status))
	}

	t.Reset()
	Logger().Debug("render target created", "width", w, "height", h, "fbo", t.fbo.Value)
	return t, nil
}

// Begin makes t the drawing destination with the viewport set to the
// active region, not the full capacity.
func (t *RenderTarget) Begin() {
	t.dev.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	t.dev.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	t.dev.Viewport(0, 0, t.setup.Width, t.setup.Height)
}

// End unbinds the depth render buffer. The framebuffer stays bound until the
// context binds another target or the screen.
func (t *RenderTarget) End() {
	t.dev.BindRenderbuffer(gl.RENDERBUFFER, gl.Renderbuffer{})
}

// Reset restores the active region to the full capacity.
func (t *RenderTarget) Reset() {
	t.SetFrameSetup(&FrameSetup{Width: t.fboWidth, Height: t.fboHeight})
}

// SetFrameSetup copies the size of s into the active region and recomputes
// the texture coordinates. The size is clamped to [1, capacity]; nil is
// ignored.
func (t *RenderTarget) SetFrameSetup(s *FrameSetup) {
	if s == nil {
		return
	}
	t.setup.Width = min(max(s.Width, 1), t.fboWidth)
	t.setup.Height = min(max(s.Height, 1), t.fboHeight)

	u := float32(t.setup.Width) / float32(t.fboWidth)
	v := float32(t.setup.Height) / float32(t.fboHeight)
	t.texCoords = [8]float32{
		0, 0,
		u, 0,
		0, v,
		u, v,
	}
}

// FrameSetup returns a copy of the active region.
func (t *RenderTarget) FrameSetup() FrameSetup {
	return t.setup
}

// Viewport returns the active region as a Viewport.
func (t *RenderTarget) Viewport() Viewport {
	return t.setup.Viewport()
}

// TextureCoords returns the active region in normalized texture space as a
// triangle strip: origin, right, top, far corner.
func (t *RenderTarget) TextureCoords() [8]float32 {
	return t.texCoords
}

// FarCorner is the texture coordinate of the top-right corner of the active
// region.
func (t *RenderTarget) FarCorner() (u, v float32) {
	return t.texCoords[6], t.texCoords[7]
}

func (t *RenderTarget) Texture() gl.Texture { return t.texture }
func (t *RenderTarget) Width() int          { return t.setup.Width }
func (t *RenderTarget) Height() int         { return t.setup.Height }
func (t *RenderTarget) MaxWidth() int       { return t.fboWidth }
func (t *RenderTarget) MaxHeight() int      { return t.fboHeight }
func (t *RenderTarget) Disposed() bool      { return t.disposed }

// Fits reports whether a w×h region fits in the capacity of t.
func (t *RenderTarget) Fits(w, h int) bool {
	return w <= t.fboWidth && h <= t.fboHeight
}

// Dispose releases the framebuffer, texture and render buffer. Disposal is
// tracked: a second call only logs.
func (t *RenderTarget) Dispose() {
	if t.disposed {
		Logger().Debug("render target already disposed", "fbo", t.fbo.Value)
		return
	}
	t.disposed = true
	if t.fbo.Value != 0 {
		t.dev.DeleteFramebuffer(t.fbo)
		t.fbo = gl.Framebuffer{}
	}
	if t.depth.Value != 0 {
		t.dev.DeleteRenderbuffer(t.depth)
		t.depth = gl.Renderbuffer{}
	}
	if t.texture.Value != 0 {
		t.dev.DeleteTexture(t.texture)
		t.texture = gl.Texture{}
	}
}

// Snapshot reads the active region back into a top-down image. It binds the
// target's framebuffer and leaves it bound.
func (t *RenderTarget) Snapshot() (*image.NRGBA, error) {
	if t.disposed {
		return nil, errors.New("render: snapshot of disposed target")
	}
	w, h := t.setup.Width, t.setup.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	t.dev.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	t.dev.ReadPixels(img.Pix, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE)
	// GL rows start at the bottom.
	return imaging.FlipV(img), nil
}
