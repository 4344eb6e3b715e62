package render

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
)

// ShaderProgram is one drawing technique on the GPU.
//
// The lifecycle is UNCOMPILED → Compile → COMPILED → Destroy → UNCOMPILED,
// repeated on every graphics context loss. Within a frame every Activate is
// paired with a Cleanup; the Context does this when shaders are switched.
type ShaderProgram interface {
	Name() string
	Compile(dev Device) error
	Compiled() bool
	Activate()
	Cleanup()
	Destroy()

	FeedMatrix(m mgl32.Mat4)
	FeedColor(c Color)
	FeedVertices(buf gl.Buffer)
}

// TextureFeeder is implemented by programs that sample a texture.
type TextureFeeder interface {
	FeedTexture(tex gl.Texture, coords [8]float32)
}

// Program compiles a vertex/fragment pair and caches the locations of the
// attributes and uniforms it was declared with. Stock programs embed it.
type Program struct {
	name       string
	vert, frag string
	attribs    []string
	uniforms   []string

	dev     Device
	program gl.Program
	a       map[string]gl.Attrib
	u       map[string]gl.Uniform
}

// NewProgram declares a program; nothing touches the GPU until Compile.
// Every program is expected to declare the "position" attribute and the
// "mvp" and "color" uniforms used by the common Feed methods.
func NewProgram(name, vert, frag string, attribs, uniforms []string) *Program {
	return &Program{
		name:     name,
		vert:     vert,
		frag:     frag,
		attribs:  attribs,
		uniforms: uniforms,
	}
}

func (s *Program) Name() string { return s.name }

func (s *Program) Compiled() bool { return s.program.Init }

// Handle is the GL program; zero until compiled.
func (s *Program) Handle() gl.Program { return s.program }

// Compile builds the GPU program and caches its locations.
func (s *Program) Compile(dev Device) (err error) {
	if dev == nil {
		return ErrNoDevice
	}
	// A program that failed to build still issues its calls against dev;
	// GL ignores them for program 0.
	s.dev = dev
	var vertObj, fragObj gl.Shader
	if vertObj, err = compileShader(dev, gl.VERTEX_SHADER, s.vert); err != nil {
		return errors.Wrapf(err, "vertex shader %s", s.name)
	}
	if fragObj, err = compileShader(dev, gl.FRAGMENT_SHADER, s.frag); err != nil {
		dev.DeleteShader(vertObj)
		return errors.Wrapf(err, "fragment shader %s", s.name)
	}
	prog, err := linkProgram(dev, vertObj, fragObj)
	if err != nil {
		return errors.Wrapf(err, "link %s", s.name)
	}
	s.program = prog
	s.a = make(map[string]gl.Attrib, len(s.attribs))
	s.u = make(map[string]gl.Uniform, len(s.uniforms))
	s.RegisterAttributes(s.attribs...)
	s.RegisterUniforms(s.uniforms...)
	return nil
}

func (s *Program) RegisterAttributes(names ...string) {
	for _, name := range names {
		s.a[name] = s.dev.GetAttribLocation(s.program, name)
	}
}

func (s *Program) RegisterUniforms(names ...string) {
	for _, name := range names {
		s.u[name] = s.dev.GetUniformLocation(s.program, name)
	}
}

// Attrib returns the cached location of an attribute.
func (s *Program) Attrib(name string) gl.Attrib { return s.a[name] }

// Uniform returns the cached location of a uniform.
func (s *Program) Uniform(name string) gl.Uniform { return s.u[name] }

// Activate binds the program and enables its vertex attribute arrays.
func (s *Program) Activate() {
	s.dev.UseProgram(s.program)
	for _, name := range s.attribs {
		s.dev.EnableVertexAttribArray(s.a[name])
	}
}

// Cleanup disables the attribute arrays enabled by Activate.
func (s *Program) Cleanup() {
	for _, name := range s.attribs {
		s.dev.DisableVertexAttribArray(s.a[name])
	}
}

// Destroy frees the GPU program. Compile can build it again.
func (s *Program) Destroy() {
	if !s.program.Init {
		return
	}
	s.dev.DeleteProgram(s.program)
	s.program = gl.Program{}
}

func (s *Program) FeedMatrix(m mgl32.Mat4) {
	s.dev.UniformMatrix4fv(s.u["mvp"], m[:])
}

func (s *Program) FeedColor(c Color) {
	s.dev.Uniform4f(s.u["color"], c.R, c.G, c.B, c.A)
}

// FeedVertices points the position attribute at buf, which holds tightly
// packed xy pairs.
func (s *Program) FeedVertices(buf gl.Buffer) {
	s.dev.BindBuffer(gl.ARRAY_BUFFER, buf)
	s.dev.VertexAttribPointer(s.a["position"], 2, gl.FLOAT, false, 0, 0)
}

func compileShader(dev Device, shaderType gl.Enum, src string) (gl.Shader, error) {
	shader := dev.CreateShader(shaderType)
	dev.ShaderSource(shader, src)
	dev.CompileShader(shader)
	if dev.GetShaderi(shader, gl.COMPILE_STATUS) == gl.FALSE {
		log := dev.GetShaderInfoLog(shader)
		dev.DeleteShader(shader)
		if log == "" {
			return gl.Shader{}, Error("unknown shader compile error")
		}
		return gl.Shader{}, Error(log)
	}
	return shader, nil
}

func linkProgram(dev Device, shaders ...gl.Shader) (gl.Program, error) {
	program := dev.CreateProgram()
	for _, s := range shaders {
		dev.AttachShader(program, s)
	}
	dev.LinkProgram(program)
	// Shaders are released with the program.
	for _, s := range shaders {
		dev.DeleteShader(s)
	}
	if dev.GetProgrami(program, gl.LINK_STATUS) == gl.FALSE {
		log := dev.GetProgramInfoLog(program)
		dev.DeleteProgram(program)
		if log == "" {
			return gl.Program{}, Error("unknown link error")
		}
		return gl.Program{}, Error(log)
	}
	return program, nil
}

// quadBytes packs vertex data the way the GPU expects it.
func quadBytes(values ...float32) []byte {
	return f32.Bytes(binary.LittleEndian, values...)
}
