package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artenus-engine/Artenus-GO/packages/render/rendertest"
)

func TestCreateRenderTarget(t *testing.T) {
	dev := rendertest.NewDevice()
	rt, err := CreateRenderTarget(dev, 64, 32)
	require.NoError(t, err)

	assert.Equal(t, 1, dev.Live(rendertest.KindFramebuffer))
	assert.Equal(t, 1, dev.Live(rendertest.KindTexture))
	assert.Equal(t, 1, dev.Live(rendertest.KindRenderbuffer))
	w, h := dev.TextureSize(rt.Texture().Value)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
	assert.Zero(t, dev.Framebuffer, "creation leaves the screen bound")

	assert.Equal(t, 64, rt.Width())
	assert.Equal(t, 32, rt.Height())
	assert.Equal(t, [8]float32{0, 0, 1, 0, 0, 1, 1, 1}, rt.TextureCoords())
}

func TestCreateRenderTargetErrors(t *testing.T) {
	_, err := CreateRenderTarget(nil, 8, 8)
	assert.ErrorIs(t, err, ErrNoDevice)

	dev := rendertest.NewDevice()
	rt, err := CreateRenderTarget(dev, 0, 8)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.Nil(t, rt)
	assert.Zero(t, dev.Created(rendertest.KindFramebuffer))
}

func TestCreateRenderTargetIncomplete(t *testing.T) {
	dev := rendertest.NewDevice()
	dev.MaxFramebuffers = 1

	first, err := CreateRenderTarget(dev, 16, 16)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := CreateRenderTarget(dev, 16, 16)
	assert.Error(t, err)
	assert.Nil(t, second)
	assert.Equal(t, 1, dev.Live(rendertest.KindFramebuffer), dev.Summary())
	assert.Equal(t, 1, dev.Live(rendertest.KindTexture), dev.Summary())
	assert.Equal(t, 1, dev.Live(rendertest.KindRenderbuffer), dev.Summary())
}

func TestRenderTargetFrameSetup(t *testing.T) {
	dev := rendertest.NewDevice()
	rt, err := CreateRenderTarget(dev, 64, 32)
	require.NoError(t, err)

	rt.SetFrameSetup(&FrameSetup{Width: 32, Height: 8})
	assert.Equal(t, [8]float32{0, 0, 0.5, 0, 0, 0.25, 0.5, 0.25}, rt.TextureCoords())
	u, v := rt.FarCorner()
	assert.Equal(t, float32(0.5), u)
	assert.Equal(t, float32(0.25), v)
	assert.Equal(t, NewViewport(32, 8), rt.Viewport())
	assert.Equal(t, 64, rt.MaxWidth())
	assert.Equal(t, 32, rt.MaxHeight())

	rt.Begin()
	assert.Equal(t, [4]int{0, 0, 32, 8}, dev.ViewportRect)
	rt.End()
	assert.Zero(t, dev.Renderbuffer)

	rt.SetFrameSetup(nil)
	assert.Equal(t, 32, rt.Width())

	rt.SetFrameSetup(&FrameSetup{Width: 1000, Height: 0})
	assert.Equal(t, 64, rt.Width())
	assert.Equal(t, 1, rt.Height())

	rt.Reset()
	assert.Equal(t, [8]float32{0, 0, 1, 0, 0, 1, 1, 1}, rt.TextureCoords())
	u, v = rt.FarCorner()
	assert.Equal(t, float32(1), u)
	assert.Equal(t, float32(1), v)
	assert.Equal(t, NewViewport(64, 32), rt.Viewport())
	assert.True(t, rt.Fits(64, 10))
	assert.False(t, rt.Fits(65, 10))
}

func TestRenderTargetDisposeTwice(t *testing.T) {
	dev := rendertest.NewDevice()
	rt, err := CreateRenderTarget(dev, 8, 8)
	require.NoError(t, err)

	rt.Dispose()
	assert.True(t, rt.Disposed())
	assert.NotPanics(t, rt.Dispose)
	assert.Equal(t, 1, dev.Deleted(rendertest.KindFramebuffer))
	assert.Equal(t, 1, dev.Deleted(rendertest.KindTexture))
	assert.Equal(t, 1, dev.Deleted(rendertest.KindRenderbuffer))
}

func TestRenderTargetSnapshot(t *testing.T) {
	dev := rendertest.NewDevice()
	rt, err := CreateRenderTarget(dev, 4, 3)
	require.NoError(t, err)

	img, err := rt.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	// GL row 2 is the top of the image.
	assert.Equal(t, uint8(2), img.Pix[0])
	assert.Equal(t, uint8(0), img.Pix[len(img.Pix)-1])

	rt.Dispose()
	_, err = rt.Snapshot()
	assert.Error(t, err)
}
