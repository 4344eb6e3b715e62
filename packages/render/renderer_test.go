package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/size"

	"github.com/artenus-engine/Artenus-GO/packages/render/rendertest"
)

type listener struct {
	created, lost int
	dev           Device
}

func (l *listener) ContextCreated(dev Device) { l.created++; l.dev = dev }
func (l *listener) ContextLost()              { l.lost++; l.dev = nil }

// solidScene draws one solid quad per frame.
func solidScene() Renderable {
	return renderFunc(func(ctx RenderingContext, flags RenderFlags) {
		UseShader(ctx, ctx.Programs().Solid, flags)
		WithMatrix(ctx, func() {
			ctx.Translate(10, 10)
			ctx.Scale(20, 20)
			ctx.Rect()
		})
	})
}

func newTestRenderer(t *testing.T, w, h int) (*rendertest.Device, *Renderer) {
	t.Helper()
	r := NewRenderer(Options{ClearColor: Color{0.1, 0.2, 0.3, 1}})
	r.HandleSize(size.Event{WidthPx: w, HeightPx: h})
	dev := rendertest.NewDevice()
	require.NoError(t, r.ContextCreated(dev))
	return dev, r
}

func visible(dev interface{}) lifecycle.Event {
	return lifecycle.Event{From: lifecycle.StageAlive, To: lifecycle.StageVisible, DrawContext: dev}
}

func hidden() lifecycle.Event {
	return lifecycle.Event{From: lifecycle.StageVisible, To: lifecycle.StageAlive}
}

func TestRendererDrawsToScreenWithoutFilters(t *testing.T) {
	dev, r := newTestRenderer(t, 320, 240)
	r.SetScene(solidScene())

	r.DrawFrame()
	require.Len(t, dev.Draws, 1)
	assert.Zero(t, dev.Draws[0].Framebuffer)
	assert.Equal(t, [4]int{0, 0, 320, 240}, dev.Draws[0].Viewport)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, dev.ClearRGBA)
	assert.Nil(t, r.FrameTarget(), "no frame target without filters")
	assert.Equal(t, 1, r.Stats().DrawCalls)
	assert.Nil(t, r.Context().Shader())
}

func TestRendererRunsFilters(t *testing.T) {
	dev, r := newTestRenderer(t, 320, 240)
	r.SetScene(solidScene())
	f := &recorder{passes: 1}
	r.Filters().Add(f)

	r.DrawFrame()
	frame := r.FrameTarget()
	require.NotNil(t, frame)
	require.Len(t, f.inputs, 1)
	assert.Same(t, frame, f.inputs[0])

	require.Len(t, dev.Draws, 2)
	scene, present := dev.Draws[0], dev.Draws[1]
	assert.NotZero(t, scene.Framebuffer)
	assert.Zero(t, present.Framebuffer)
	assert.Equal(t, r.Programs().Texture.program.Value, present.Program)
	assert.Equal(t, f.outputs[0].Texture().Value, present.Texture)
	assert.False(t, present.Blend)
	assert.Equal(t, 2, r.Stats().DrawCalls)
}

func TestRendererResizeReusesFrameTarget(t *testing.T) {
	dev, r := newTestRenderer(t, 320, 240)
	r.Filters().Add(&recorder{passes: 1})
	r.DrawFrame()
	created := dev.Created(rendertest.KindFramebuffer)

	r.HandleSize(size.Event{WidthPx: 160, HeightPx: 240})
	r.DrawFrame()
	assert.Equal(t, created, dev.Created(rendertest.KindFramebuffer))
	assert.Equal(t, NewViewport(160, 240), r.FrameTarget().Viewport())

	r.HandleSize(size.Event{WidthPx: 640, HeightPx: 480})
	r.DrawFrame()
	assert.Equal(t, created+3, dev.Created(rendertest.KindFramebuffer))
	assert.Equal(t, 3, dev.Live(rendertest.KindFramebuffer))
}

func TestRendererContextLoss(t *testing.T) {
	r := NewRenderer(Options{})
	r.HandleSize(size.Event{WidthPx: 320, HeightPx: 240})
	r.SetScene(solidScene())
	r.Filters().Add(&recorder{passes: 2, divide: 2})
	l := &listener{}
	r.AddContextListener(l)

	old := rendertest.NewDevice()
	require.NoError(t, r.HandleLifecycle(visible(old)))
	assert.True(t, r.Ready())
	assert.Equal(t, 1, l.created)
	r.DrawFrame()
	require.Equal(t, 3, old.Live(rendertest.KindFramebuffer))

	require.NoError(t, r.HandleLifecycle(hidden()))
	assert.False(t, r.Ready())
	assert.Equal(t, 1, l.lost)
	assert.Zero(t, old.Live(rendertest.KindFramebuffer), old.Summary())
	assert.Zero(t, old.Live(rendertest.KindTexture), old.Summary())
	assert.Zero(t, old.Live(rendertest.KindRenderbuffer), old.Summary())

	r.DrawFrame()
	assert.Len(t, old.Draws, 2, "nothing is drawn without a context")

	fresh := rendertest.NewDevice()
	require.NoError(t, r.HandleLifecycle(visible(fresh)))
	assert.Equal(t, 2, l.created)
	assert.Same(t, fresh, l.dev)
	assert.Equal(t, 3, fresh.Live(rendertest.KindProgram))

	r.DrawFrame()
	assert.Len(t, fresh.Draws, 2)
	assert.Equal(t, 3, fresh.Live(rendertest.KindFramebuffer))
}

func TestRendererLifecycleWithoutDevice(t *testing.T) {
	r := NewRenderer(Options{})
	err := r.HandleLifecycle(visible(nil))
	assert.ErrorIs(t, err, ErrNoDevice)
	assert.False(t, r.Ready())
}

func TestRendererListenerAddedLate(t *testing.T) {
	dev, r := newTestRenderer(t, 10, 10)
	l := &listener{}
	r.AddContextListener(l)
	assert.Equal(t, 1, l.created)
	assert.Same(t, dev, l.dev)
}

func TestRendererShaderFailureKeepsRunning(t *testing.T) {
	r := NewRenderer(Options{})
	dev := rendertest.NewDevice()
	dev.FailCompile = true
	assert.Error(t, r.ContextCreated(dev))
	assert.True(t, r.Ready())
	r.SetScene(solidScene())
	assert.NotPanics(t, r.DrawFrame)
}

func TestRendererRecoversLeakedMatrices(t *testing.T) {
	_, r := newTestRenderer(t, 10, 10)
	r.SetScene(renderFunc(func(ctx RenderingContext, flags RenderFlags) {
		ctx.PushMatrix()
		ctx.PushMatrix()
	}))
	r.DrawFrame()
	assert.Equal(t, 1, r.Context().Depth())
}

func TestRendererStats(t *testing.T) {
	clock := time.Unix(0, 0)
	r := NewRenderer(Options{Now: func() time.Time {
		clock = clock.Add(100 * time.Millisecond)
		return clock
	}})
	require.NoError(t, r.ContextCreated(rendertest.NewDevice()))

	for i := 0; i < 10; i++ {
		r.DrawFrame()
	}
	assert.InDelta(t, 10, r.Stats().FPS, 1e-9)
	assert.Equal(t, uint64(10), r.Stats().Frames)
}

func TestRendererScreenshot(t *testing.T) {
	_, r := newTestRenderer(t, 8, 6)
	r.DrawFrame()

	img, err := r.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, r.SaveScreenshot(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	r.ContextLost()
	_, err = r.Snapshot()
	assert.ErrorIs(t, err, ErrNoDevice)
}
