package render

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/size"

	"github.com/artenus-engine/Artenus-GO/packages/render/rendertest"
)

var _ Device = (*rendertest.Device)(nil)

// renderFunc adapts a function to Renderable.
type renderFunc func(ctx RenderingContext, flags RenderFlags)

func (f renderFunc) Render(ctx RenderingContext, flags RenderFlags) { f(ctx, flags) }

// newTestContext returns a context attached to a fake device with the stock
// programs compiled and a w×h screen.
func newTestContext(t *testing.T, w, h int) (*rendertest.Device, *Context) {
	t.Helper()
	dev := rendertest.NewDevice()
	shaders := NewShaderManager()
	programs := NewStockPrograms(shaders)
	require.NoError(t, shaders.LoadAll(dev))
	ctx := NewContext(programs, 0, 0)
	ctx.Attach(dev)
	ctx.SetScreenSize(size.Event{WidthPx: w, HeightPx: h})
	return dev, ctx
}
