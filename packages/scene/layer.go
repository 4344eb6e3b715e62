package scene

import "github.com/artenus-engine/Artenus-GO/packages/render"

// Capability is a set of behaviours an entity supports.
type Capability uint8

const (
	CapRenderable Capability = 1 << iota
	CapAnimatable
	CapTouchable
)

func (c Capability) Has(o Capability) bool { return c&o == o }

// Animatable entities advance with time; dt is in seconds.
type Animatable interface {
	Advance(dt float32)
}

// Touchable entities react to touches in logical coordinates and report
// whether they consumed the touch.
type Touchable interface {
	Touch(x, y float32) bool
}

// CapabilitiesOf returns the behaviours e implements.
func CapabilitiesOf(e any) Capability {
	var c Capability
	if _, ok := e.(render.Renderable); ok {
		c |= CapRenderable
	}
	if _, ok := e.(Animatable); ok {
		c |= CapAnimatable
	}
	if _, ok := e.(Touchable); ok {
		c |= CapTouchable
	}
	return c
}

type entry struct {
	entity any
	caps   Capability
	r      render.Renderable
	a      Animatable
	t      Touchable
}

// Layer is an ordered group of entities. Capabilities are resolved once
// when an entity is added; per-frame dispatch only consults the bitmask.
// Entities draw in insertion order and receive touches in reverse.
type Layer struct {
	entries []entry
}

func NewLayer() *Layer {
	return &Layer{}
}

// Add appends e and returns its capabilities. Entities must be comparable;
// pointers are.
func (l *Layer) Add(e any) Capability {
	en := entry{entity: e, caps: CapabilitiesOf(e)}
	if en.caps.Has(CapRenderable) {
		en.r = e.(render.Renderable)
	}
	if en.caps.Has(CapAnimatable) {
		en.a = e.(Animatable)
	}
	if en.caps.Has(CapTouchable) {
		en.t = e.(Touchable)
	}
	l.entries = append(l.entries, en)
	return en.caps
}

// Remove drops the first occurrence of e.
func (l *Layer) Remove(e any) bool {
	for i, en := range l.entries {
		if en.entity == e {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Layer) Len() int { return len(l.entries) }

// Capabilities returns what e was registered with, or zero if it is not in
// the layer.
func (l *Layer) Capabilities(e any) Capability {
	for _, en := range l.entries {
		if en.entity == e {
			return en.caps
		}
	}
	return 0
}

// Render draws every renderable entity. Unless the caller preserves its
// program, the colour filter is restored afterwards.
func (l *Layer) Render(ctx render.RenderingContext, flags render.RenderFlags) {
	if flags&render.FlagPreserveShaderProgram == 0 {
		prev := ctx.ColorFilter()
		defer ctx.SetColorFilter(prev.R, prev.G, prev.B, prev.A)
	}
	for _, en := range l.entries {
		if !en.caps.Has(CapRenderable) {
			continue
		}
		en.r.Render(ctx, flags)
	}
}

func (l *Layer) Advance(dt float32) {
	for _, en := range l.entries {
		if en.caps.Has(CapAnimatable) {
			en.a.Advance(dt)
		}
	}
}

// Touch offers the point to touchable entities, topmost first, and stops
// at the first one that consumes it.
func (l *Layer) Touch(x, y float32) bool {
	for i := len(l.entries) - 1; i >= 0; i-- {
		en := l.entries[i]
		if en.caps.Has(CapTouchable) && en.t.Touch(x, y) {
			return true
		}
	}
	return false
}
