// Package rendertest provides a recording render.Device for tests.
//
// The fake keeps just enough GL state to check what the rendering core does:
// object lifetimes, bindings, the viewport, uniform values and every draw
// call together with the state it was issued in. It never touches a GPU.
package rendertest

import (
	"fmt"
	"sort"

	"golang.org/x/mobile/gl"
)

// Object kinds tracked by Device.
const (
	KindBuffer       = "buffer"
	KindFramebuffer  = "framebuffer"
	KindProgram      = "program"
	KindRenderbuffer = "renderbuffer"
	KindShader       = "shader"
	KindTexture      = "texture"
)

// Draw is one DrawArrays call and the state it ran with.
type Draw struct {
	Mode        gl.Enum
	Count       int
	Program     uint32
	Framebuffer uint32
	Texture     uint32
	Viewport    [4]int
	Blend       bool
	BlendFunc   [2]gl.Enum
	// Uniforms holds the values of the active program's uniforms by name.
	Uniforms map[string][]float32
}

// Device is a fake render.Device. The zero value is not usable; call
// NewDevice.
type Device struct {
	// FailCompile makes every CompileShader report failure.
	FailCompile bool
	// FailLink makes every LinkProgram report failure.
	FailLink bool
	// MaxFramebuffers, when positive, makes CheckFramebufferStatus report
	// an incomplete framebuffer once more than that many are alive.
	MaxFramebuffers int

	next    uint32
	live    map[string]map[uint32]bool
	created map[string]int
	deleted map[string]int

	Framebuffer  uint32
	Renderbuffer uint32
	Program      uint32
	Texture      uint32
	ArrayBuffer  uint32
	ViewportRect [4]int
	ClearRGBA    [4]float32
	Clears       int

	caps      map[gl.Enum]bool
	blendFunc [2]gl.Enum
	attribs   map[uint]bool

	compiled map[uint32]bool
	linked   map[uint32]bool
	sources  map[uint32]string

	attribLoc  map[uint32]map[string]gl.Attrib
	uniformLoc map[uint32]map[string]gl.Uniform
	nextLoc    int32
	uniforms   map[int32][]float32

	textures map[uint32][2]int
	buffers  map[uint32][]byte

	Draws []Draw
	Calls []string
}

func NewDevice() *Device {
	return &Device{
		live:       make(map[string]map[uint32]bool),
		created:    make(map[string]int),
		deleted:    make(map[string]int),
		caps:       make(map[gl.Enum]bool),
		attribs:    make(map[uint]bool),
		compiled:   make(map[uint32]bool),
		linked:     make(map[uint32]bool),
		sources:    make(map[uint32]string),
		attribLoc:  make(map[uint32]map[string]gl.Attrib),
		uniformLoc: make(map[uint32]map[string]gl.Uniform),
		uniforms:   make(map[int32][]float32),
		textures:   make(map[uint32][2]int),
		buffers:    make(map[uint32][]byte),
	}
}

// ------------------------------------------------------------------
// Inspection

// Live returns the number of objects of kind that exist.
func (d *Device) Live(kind string) int { return len(d.live[kind]) }

// Created returns how many objects of kind were ever created.
func (d *Device) Created(kind string) int { return d.created[kind] }

// Deleted returns how many objects of kind were deleted.
func (d *Device) Deleted(kind string) int { return d.deleted[kind] }

// Alive reports whether handle v of kind exists.
func (d *Device) Alive(kind string, v uint32) bool { return d.live[kind][v] }

// Enabled reports whether a capability such as gl.BLEND is enabled.
func (d *Device) Enabled(c gl.Enum) bool { return d.caps[c] }

// AttribEnabled reports whether the vertex attribute array a is enabled.
func (d *Device) AttribEnabled(a gl.Attrib) bool { return d.attribs[a.Value] }

// EnabledAttribs returns the number of enabled vertex attribute arrays.
func (d *Device) EnabledAttribs() int {
	n := 0
	for _, on := range d.attribs {
		if on {
			n++
		}
	}
	return n
}

// TextureSize returns the size given to TexImage2D for texture v.
func (d *Device) TextureSize(v uint32) (w, h int) {
	s := d.textures[v]
	return s[0], s[1]
}

// BufferContents returns the last data uploaded to buffer v.
func (d *Device) BufferContents(v uint32) []byte { return d.buffers[v] }

// Uniform returns the last value set for the named uniform of program p.
func (d *Device) Uniform(p uint32, name string) []float32 {
	u, ok := d.uniformLoc[p][name]
	if !ok {
		return nil
	}
	return d.uniforms[u.Value]
}

// DrawsTo returns the draws issued while framebuffer fb was bound.
func (d *Device) DrawsTo(fb uint32) []Draw {
	var out []Draw
	for _, dr := range d.Draws {
		if dr.Framebuffer == fb {
			out = append(out, dr)
		}
	}
	return out
}

// CallCount returns how many times the named method was called.
func (d *Device) CallCount(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// ResetRecording forgets recorded calls and draws, keeping the GL state.
func (d *Device) ResetRecording() {
	d.Draws = nil
	d.Calls = nil
	d.Clears = 0
}

func (d *Device) record(name string) {
	d.Calls = append(d.Calls, name)
}

func (d *Device) create(kind string) uint32 {
	d.next++
	if d.live[kind] == nil {
		d.live[kind] = make(map[uint32]bool)
	}
	d.live[kind][d.next] = true
	d.created[kind]++
	return d.next
}

func (d *Device) remove(kind string, v uint32) {
	if !d.live[kind][v] {
		panic(fmt.Sprintf("rendertest: delete of unknown %s %d", kind, v))
	}
	delete(d.live[kind], v)
	d.deleted[kind]++
}

// ------------------------------------------------------------------
// render.Device

func (d *Device) ActiveTexture(texture gl.Enum) { d.record("ActiveTexture") }

func (d *Device) AttachShader(p gl.Program, s gl.Shader) { d.record("AttachShader") }

func (d *Device) BindBuffer(target gl.Enum, b gl.Buffer) {
	d.record("BindBuffer")
	if target == gl.ARRAY_BUFFER {
		d.ArrayBuffer = b.Value
	}
}

func (d *Device) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	d.record("BindFramebuffer")
	d.Framebuffer = fb.Value
}

func (d *Device) BindRenderbuffer(target gl.Enum, rb gl.Renderbuffer) {
	d.record("BindRenderbuffer")
	d.Renderbuffer = rb.Value
}

func (d *Device) BindTexture(target gl.Enum, t gl.Texture) {
	d.record("BindTexture")
	d.Texture = t.Value
}

func (d *Device) BlendFunc(sfactor, dfactor gl.Enum) {
	d.record("BlendFunc")
	d.blendFunc = [2]gl.Enum{sfactor, dfactor}
}

func (d *Device) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	d.record("BufferData")
	if target == gl.ARRAY_BUFFER {
		d.buffers[d.ArrayBuffer] = append([]byte(nil), src...)
	}
}

func (d *Device) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	d.record("CheckFramebufferStatus")
	if d.MaxFramebuffers > 0 && d.Live(KindFramebuffer) > d.MaxFramebuffers {
		return gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	}
	return gl.FRAMEBUFFER_COMPLETE
}

func (d *Device) Clear(mask gl.Enum) {
	d.record("Clear")
	d.Clears++
}

func (d *Device) ClearColor(red, green, blue, alpha float32) {
	d.record("ClearColor")
	d.ClearRGBA = [4]float32{red, green, blue, alpha}
}

func (d *Device) CompileShader(s gl.Shader) {
	d.record("CompileShader")
	d.compiled[s.Value] = !d.FailCompile
}

func (d *Device) CreateBuffer() gl.Buffer {
	d.record("CreateBuffer")
	return gl.Buffer{Value: d.create(KindBuffer)}
}

func (d *Device) CreateFramebuffer() gl.Framebuffer {
	d.record("CreateFramebuffer")
	return gl.Framebuffer{Value: d.create(KindFramebuffer)}
}

func (d *Device) CreateProgram() gl.Program {
	d.record("CreateProgram")
	return gl.Program{Init: true, Value: d.create(KindProgram)}
}

func (d *Device) CreateRenderbuffer() gl.Renderbuffer {
	d.record("CreateRenderbuffer")
	return gl.Renderbuffer{Value: d.create(KindRenderbuffer)}
}

func (d *Device) CreateShader(ty gl.Enum) gl.Shader {
	d.record("CreateShader")
	return gl.Shader{Value: d.create(KindShader)}
}

func (d *Device) CreateTexture() gl.Texture {
	d.record("CreateTexture")
	return gl.Texture{Value: d.create(KindTexture)}
}

func (d *Device) DeleteBuffer(v gl.Buffer) {
	d.record("DeleteBuffer")
	d.remove(KindBuffer, v.Value)
	delete(d.buffers, v.Value)
}

func (d *Device) DeleteFramebuffer(v gl.Framebuffer) {
	d.record("DeleteFramebuffer")
	d.remove(KindFramebuffer, v.Value)
	if d.Framebuffer == v.Value {
		d.Framebuffer = 0
	}
}

func (d *Device) DeleteProgram(p gl.Program) {
	d.record("DeleteProgram")
	d.remove(KindProgram, p.Value)
	if d.Program == p.Value {
		d.Program = 0
	}
}

func (d *Device) DeleteRenderbuffer(v gl.Renderbuffer) {
	d.record("DeleteRenderbuffer")
	d.remove(KindRenderbuffer, v.Value)
}

func (d *Device) DeleteShader(s gl.Shader) {
	d.record("DeleteShader")
	d.remove(KindShader, s.Value)
}

func (d *Device) DeleteTexture(v gl.Texture) {
	d.record("DeleteTexture")
	d.remove(KindTexture, v.Value)
	delete(d.textures, v.Value)
}

func (d *Device) Disable(c gl.Enum) {
	d.record("Disable")
	d.caps[c] = false
}

func (d *Device) DisableVertexAttribArray(a gl.Attrib) {
	d.record("DisableVertexAttribArray")
	d.attribs[a.Value] = false
}

func (d *Device) DrawArrays(mode gl.Enum, first, count int) {
	d.record("DrawArrays")
	uniforms := make(map[string][]float32)
	for name, u := range d.uniformLoc[d.Program] {
		if v, ok := d.uniforms[u.Value]; ok {
			uniforms[name] = v
		}
	}
	d.Draws = append(d.Draws, Draw{
		Mode:        mode,
		Count:       count,
		Program:     d.Program,
		Framebuffer: d.Framebuffer,
		Texture:     d.Texture,
		Viewport:    d.ViewportRect,
		Blend:       d.caps[gl.BLEND],
		BlendFunc:   d.blendFunc,
		Uniforms:    uniforms,
	})
}

func (d *Device) Enable(c gl.Enum) {
	d.record("Enable")
	d.caps[c] = true
}

func (d *Device) EnableVertexAttribArray(a gl.Attrib) {
	d.record("EnableVertexAttribArray")
	d.attribs[a.Value] = true
}

func (d *Device) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Renderbuffer) {
	d.record("FramebufferRenderbuffer")
}

func (d *Device) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int) {
	d.record("FramebufferTexture2D")
}

// GetAttribLocation hands out a stable location per program and name.
// Locations are unique across programs.
func (d *Device) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	d.record("GetAttribLocation")
	m := d.attribLoc[p.Value]
	if m == nil {
		m = make(map[string]gl.Attrib)
		d.attribLoc[p.Value] = m
	}
	a, ok := m[name]
	if !ok {
		d.nextLoc++
		a = gl.Attrib{Value: uint(d.nextLoc)}
		m[name] = a
	}
	return a
}

func (d *Device) GetProgramInfoLog(p gl.Program) string {
	d.record("GetProgramInfoLog")
	if d.linked[p.Value] {
		return ""
	}
	return "link failed"
}

func (d *Device) GetProgrami(p gl.Program, pname gl.Enum) int {
	d.record("GetProgrami")
	if pname == gl.LINK_STATUS && d.linked[p.Value] {
		return gl.TRUE
	}
	return gl.FALSE
}

func (d *Device) GetShaderInfoLog(s gl.Shader) string {
	d.record("GetShaderInfoLog")
	if d.compiled[s.Value] {
		return ""
	}
	return "compile failed"
}

func (d *Device) GetShaderi(s gl.Shader, pname gl.Enum) int {
	d.record("GetShaderi")
	if pname == gl.COMPILE_STATUS && d.compiled[s.Value] {
		return gl.TRUE
	}
	return gl.FALSE
}

// GetUniformLocation hands out a stable location per program and name.
// Locations are unique across programs.
func (d *Device) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	d.record("GetUniformLocation")
	m := d.uniformLoc[p.Value]
	if m == nil {
		m = make(map[string]gl.Uniform)
		d.uniformLoc[p.Value] = m
	}
	u, ok := m[name]
	if !ok {
		d.nextLoc++
		u = gl.Uniform{Value: d.nextLoc}
		m[name] = u
	}
	return u
}

func (d *Device) LinkProgram(p gl.Program) {
	d.record("LinkProgram")
	d.linked[p.Value] = !d.FailLink
}

// ReadPixels fills row y of the destination with the byte value y.
func (d *Device) ReadPixels(dst []byte, x, y, width, height int, format, ty gl.Enum) {
	d.record("ReadPixels")
	stride := width * 4
	for row := 0; row < height; row++ {
		for i := row * stride; i < (row+1)*stride && i < len(dst); i++ {
			dst[i] = byte(row)
		}
	}
}

func (d *Device) RenderbufferStorage(target, internalFormat gl.Enum, width, height int) {
	d.record("RenderbufferStorage")
}

func (d *Device) ShaderSource(s gl.Shader, src string) {
	d.record("ShaderSource")
	d.sources[s.Value] = src
}

func (d *Device) TexImage2D(target gl.Enum, level int, internalFormat int, width, height int, format gl.Enum, ty gl.Enum, data []byte) {
	d.record("TexImage2D")
	d.textures[d.Texture] = [2]int{width, height}
}

func (d *Device) TexParameteri(target, pname gl.Enum, param int) {
	d.record("TexParameteri")
}

func (d *Device) Uniform1f(dst gl.Uniform, v float32) {
	d.record("Uniform1f")
	d.uniforms[dst.Value] = []float32{v}
}

func (d *Device) Uniform1i(dst gl.Uniform, v int) {
	d.record("Uniform1i")
	d.uniforms[dst.Value] = []float32{float32(v)}
}

func (d *Device) Uniform2f(dst gl.Uniform, v0, v1 float32) {
	d.record("Uniform2f")
	d.uniforms[dst.Value] = []float32{v0, v1}
}

func (d *Device) Uniform4f(dst gl.Uniform, v0, v1, v2, v3 float32) {
	d.record("Uniform4f")
	d.uniforms[dst.Value] = []float32{v0, v1, v2, v3}
}

func (d *Device) UniformMatrix4fv(dst gl.Uniform, src []float32) {
	d.record("UniformMatrix4fv")
	d.uniforms[dst.Value] = append([]float32(nil), src...)
}

func (d *Device) UseProgram(p gl.Program) {
	d.record("UseProgram")
	d.Program = p.Value
}

func (d *Device) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	d.record("VertexAttribPointer")
}

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport")
	d.ViewportRect = [4]int{x, y, width, height}
}

// Summary lists the live object counts, for failure messages.
func (d *Device) Summary() string {
	kinds := make([]string, 0, len(d.live))
	for k := range d.live {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	s := ""
	for _, k := range kinds {
		s += fmt.Sprintf("%s=%d ", k, len(d.live[k]))
	}
	return s
}
