package render

import "golang.org/x/mobile/gl"

// Device is the slice of the OpenGL ES 2 API the rendering core issues.
//
// Every method has the exact signature of its golang.org/x/mobile/gl.Context
// counterpart, so the gl.Context delivered with a lifecycle event is a
// Device as is. Tests use rendertest.Device.
type Device interface {
	ActiveTexture(texture gl.Enum)
	AttachShader(p gl.Program, s gl.Shader)
	BindBuffer(target gl.Enum, b gl.Buffer)
	BindFramebuffer(target gl.Enum, fb gl.Framebuffer)
	BindRenderbuffer(target gl.Enum, rb gl.Renderbuffer)
	BindTexture(target gl.Enum, t gl.Texture)
	BlendFunc(sfactor, dfactor gl.Enum)
	BufferData(target gl.Enum, src []byte, usage gl.Enum)
	CheckFramebufferStatus(target gl.Enum) gl.Enum
	Clear(mask gl.Enum)
	ClearColor(red, green, blue, alpha float32)
	CompileShader(s gl.Shader)
	CreateBuffer() gl.Buffer
	CreateFramebuffer() gl.Framebuffer
	CreateProgram() gl.Program
	CreateRenderbuffer() gl.Renderbuffer
	CreateShader(ty gl.Enum) gl.Shader
	CreateTexture() gl.Texture
	DeleteBuffer(v gl.Buffer)
	DeleteFramebuffer(v gl.Framebuffer)
	DeleteProgram(p gl.Program)
	DeleteRenderbuffer(v gl.Renderbuffer)
	DeleteShader(s gl.Shader)
	DeleteTexture(v gl.Texture)
	Disable(cap gl.Enum)
	DisableVertexAttribArray(a gl.Attrib)
	DrawArrays(mode gl.Enum, first, count int)
	Enable(cap gl.Enum)
	EnableVertexAttribArray(a gl.Attrib)
	FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Renderbuffer)
	FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int)
	GetAttribLocation(p gl.Program, name string) gl.Attrib
	GetProgramInfoLog(p gl.Program) string
	GetProgrami(p gl.Program, pname gl.Enum) int
	GetShaderInfoLog(s gl.Shader) string
	GetShaderi(s gl.Shader, pname gl.Enum) int
	GetUniformLocation(p gl.Program, name string) gl.Uniform
	LinkProgram(p gl.Program)
	ReadPixels(dst []byte, x, y, width, height int, format, ty gl.Enum)
	RenderbufferStorage(target, internalFormat gl.Enum, width, height int)
	ShaderSource(s gl.Shader, src string)
	TexImage2D(target gl.Enum, level int, internalFormat int, width, height int, format gl.Enum, ty gl.Enum, data []byte)
	TexParameteri(target, pname gl.Enum, param int)
	Uniform1f(dst gl.Uniform, v float32)
	Uniform1i(dst gl.Uniform, v int)
	Uniform2f(dst gl.Uniform, v0, v1 float32)
	Uniform4f(dst gl.Uniform, v0, v1, v2, v3 float32)
	UniformMatrix4fv(dst gl.Uniform, src []float32)
	UseProgram(p gl.Program)
	VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}

// Compile-time proof that a real x/mobile context can drive the core.
var _ Device = gl.Context(nil)

// Color is a straight (non premultiplied) RGBA colour in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

// Premultiplied returns c with its colour channels scaled by alpha.
func (c Color) Premultiplied() Color {
	return Color{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}
