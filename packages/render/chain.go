package render

import "reflect"

// MaxPasses bounds the number of passes a single filter may negotiate in
// one frame.
const MaxPasses = 16

// FilterChain runs post-processing filters in registration order over a
// rendered frame, ping-ponging between two targets sized like the frame.
type FilterChain struct {
	filters []PostProcessingFilter
	pool    [2]*RenderTarget
}

func NewFilterChain(filters ...PostProcessingFilter) *FilterChain {
	return &FilterChain{filters: filters}
}

func (fc *FilterChain) Add(f PostProcessingFilter) {
	fc.filters = append(fc.filters, f)
}

// Remove drops the first occurrence of f and reports whether it was found.
// Filters are matched by identity; values of uncomparable types never match.
func (fc *FilterChain) Remove(f PostProcessingFilter) bool {
	if f == nil || !reflect.TypeOf(f).Comparable() {
		return false
	}
	for i, g := range fc.filters {
		if reflect.TypeOf(g) == reflect.TypeOf(f) && g == f {
			fc.filters = append(fc.filters[:i], fc.filters[i+1:]...)
			return true
		}
	}
	return false
}

func (fc *FilterChain) Filters() []PostProcessingFilter {
	return append([]PostProcessingFilter(nil), fc.filters...)
}

func (fc *FilterChain) Len() int { return len(fc.filters) }

// Prepare makes sure the ping-pong targets can hold a w×h frame. Existing
// targets are reused when they are large enough. A target that cannot be
// allocated is left out; passes that need it are then skipped.
func (fc *FilterChain) Prepare(dev Device, w, h int) {
	for i, t := range fc.pool {
		if t != nil && t.Fits(w, h) {
			t.Reset()
			continue
		}
		if t != nil {
			t.Dispose()
			fc.pool[i] = nil
		}
		t, err := CreateRenderTarget(dev, w, h)
		if err != nil {
			Logger().Warn("post-processing target unavailable", "index", i, "err", err)
			continue
		}
		fc.pool[i] = t
	}
}

// Dispose releases the ping-pong targets.
func (fc *FilterChain) Dispose() {
	for i, t := range fc.pool {
		if t != nil {
			t.Dispose()
			fc.pool[i] = nil
		}
	}
}

// Apply runs every filter over frame and returns the target holding the
// final result, which is frame itself when no pass produced a new target.
func (fc *FilterChain) Apply(ctx RenderingContext, frame *RenderTarget) *RenderTarget {
	raw := frame.Viewport()
	out := frame
	for _, f := range fc.filters {
		out = fc.run(ctx, f, out, raw)
	}
	return out
}

func (fc *FilterChain) run(ctx RenderingContext, f PostProcessingFilter, input *RenderTarget, raw Viewport) *RenderTarget {
	origin := input.Viewport()
	prev := origin
	for pass := 0; pass < MaxPasses; pass++ {
		setup := newFilterPassSetup(prev, origin)
		more := f.Setup(pass, &setup)
		ClampSetup(&setup, raw)

		out := PassOutput(setup, input, fc.spare(input))
		if out == nil {
			Logger().Warn("filter pass skipped: no target", "pass", pass)
			return input
		}
		if out != input {
			out.SetFrameSetup(&setup.FrameSetup)
			ctx.BindTarget(out)
			ctx.Clear(Transparent)
		} else {
			ctx.BindTarget(out)
		}
		ctx.SetBlendMode(BlendNone)
		f.Render(pass, setup, ctx, input)

		input = out
		prev = out.Viewport()
		if !more {
			return input
		}
	}
	Logger().Warn("filter exceeded pass limit", "limit", MaxPasses)
	return input
}

// spare returns a pool target other than input.
func (fc *FilterChain) spare(input *RenderTarget) *RenderTarget {
	for _, t := range fc.pool {
		if t != nil && t != input {
			return t
		}
	}
	return nil
}
