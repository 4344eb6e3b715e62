package render

import "github.com/pkg/errors"

// ShaderManager is the registry of every shader program used with one
// graphics context. Programs registered before a context exists are
// compiled by LoadAll; programs registered afterwards compile immediately.
type ShaderManager struct {
	dev      Device
	programs []ShaderProgram
	index    map[ShaderProgram]struct{}
}

func NewShaderManager() *ShaderManager {
	return &ShaderManager{index: make(map[ShaderProgram]struct{})}
}

// Register adds p to the registry. Registering the same program twice is a
// no-op. If a context is attached p is compiled right away and the compile
// error, if any, is returned; p stays registered either way so the next
// LoadAll retries it.
func (m *ShaderManager) Register(p ShaderProgram) error {
	if _, ok := m.index[p]; ok {
		return nil
	}
	m.index[p] = struct{}{}
	m.programs = append(m.programs, p)
	if m.dev == nil {
		return nil
	}
	return p.Compile(m.dev)
}

// LoadAll attaches dev and compiles every registered program, destroying
// each previously compiled one first. It must run once per context
// (re)creation before anything is drawn. All programs are attempted; the
// first error is returned.
func (m *ShaderManager) LoadAll(dev Device) error {
	if dev == nil {
		return ErrNoDevice
	}
	m.dev = dev
	var first error
	for _, p := range m.programs {
		if p.Compiled() {
			p.Destroy()
		}
		if err := p.Compile(dev); err != nil {
			Logger().Warn("shader program failed to compile", "program", p.Name(), "err", err)
			if first == nil {
				first = errors.Wrapf(err, "load %s", p.Name())
			}
		}
	}
	Logger().Info("shader programs loaded", "count", len(m.programs))
	return first
}

// Detach forgets the current context after it was lost. Programs keep their
// stale handles until the next LoadAll destroys and rebuilds them.
func (m *ShaderManager) Detach() {
	m.dev = nil
}

// Release destroys every compiled program and detaches the context.
func (m *ShaderManager) Release() {
	for _, p := range m.programs {
		if p.Compiled() {
			p.Destroy()
		}
	}
	m.dev = nil
}

// Attached reports whether a context is attached.
func (m *ShaderManager) Attached() bool {
	return m.dev != nil
}

// Programs returns the registered programs in registration order.
func (m *ShaderManager) Programs() []ShaderProgram {
	return append([]ShaderProgram(nil), m.programs...)
}
