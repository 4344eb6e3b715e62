package render

// PostProcessingFilter transforms a fully rendered frame in one or more
// passes.
//
// For every pass the chain first calls Setup with a setup sized like the
// pass input. The filter may shrink it, mark it in-place, and returns true
// if another pass must follow. The chain then binds the output the setup
// asked for and calls Render with the same pass index and setup, and the
// input: the raw frame for pass 0, the previous pass output otherwise.
//
// Filters keep no per-frame state between calls; whatever a later pass
// needs travels in the setup (see FilterPassSetup.Origin).
type PostProcessingFilter interface {
	Setup(pass int, setup *FilterPassSetup) bool
	Render(pass int, setup FilterPassSetup, ctx RenderingContext, input *RenderTarget)
}

// ClampSetup bounds a negotiated size to [1, raw] on each axis: filters can
// neither upscale past the source resolution nor ask for an empty target.
func ClampSetup(s *FilterPassSetup, raw Viewport) {
	s.Width = min(max(s.Width, 1), raw.Width())
	s.Height = min(max(s.Height, 1), raw.Height())
}

// PassOutput picks the target a pass draws into: its own input when the
// pass is in-place, the spare otherwise. It returns nil when the pass needs
// a fresh target and there is no spare.
func PassOutput(setup FilterPassSetup, input, spare *RenderTarget) *RenderTarget {
	if setup.InPlace() {
		return input
	}
	if spare == nil || spare == input {
		return nil
	}
	return spare
}
