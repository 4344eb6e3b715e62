package render

import (
	_ "embed"

	"golang.org/x/mobile/gl"
)

//go:embed shaders/solid.vert.glsl
var solidVertShader string

//go:embed shaders/solid.frag.glsl
var solidFragShader string

//go:embed shaders/texture.vert.glsl
var textureVertShader string

//go:embed shaders/texture.frag.glsl
var textureFragShader string

//go:embed shaders/shadow.frag.glsl
var shadowFragShader string

// SolidShader fills with the colour filter.
type SolidShader struct {
	*Program
}

func NewSolidShader() *SolidShader {
	return &SolidShader{
		Program: NewProgram("solid", solidVertShader, solidFragShader,
			[]string{"position"},
			[]string{"mvp", "color"}),
	}
}

// TextureShader samples a texture and multiplies it by the colour filter.
type TextureShader struct {
	*Program
	coords gl.Buffer
}

func NewTextureShader() *TextureShader {
	return newTextureShader("texture", textureFragShader)
}

// NewShadowShader returns a texture program that keeps only the alpha of the
// texture and paints it with the colour filter.
func NewShadowShader() *TextureShader {
	return newTextureShader("shadow", shadowFragShader)
}

func newTextureShader(name, frag string) *TextureShader {
	return &TextureShader{
		Program: NewProgram(name, textureVertShader, frag,
			[]string{"position", "texCoord"},
			[]string{"mvp", "color", "tex"}),
	}
}

// Compile builds the program and the dynamic buffer used for texture
// coordinates.
func (s *TextureShader) Compile(dev Device) error {
	if err := s.Program.Compile(dev); err != nil {
		return err
	}
	s.coords = dev.CreateBuffer()
	return nil
}

func (s *TextureShader) Destroy() {
	if s.coords.Value != 0 {
		s.dev.DeleteBuffer(s.coords)
		s.coords = gl.Buffer{}
	}
	s.Program.Destroy()
}

// FeedTexture binds tex to unit 0 and uploads the texture coordinates of
// the next quad.
func (s *TextureShader) FeedTexture(tex gl.Texture, coords [8]float32) {
	s.dev.ActiveTexture(gl.TEXTURE0)
	s.dev.BindTexture(gl.TEXTURE_2D, tex)
	s.dev.Uniform1i(s.u["tex"], 0)
	s.dev.BindBuffer(gl.ARRAY_BUFFER, s.coords)
	s.dev.BufferData(gl.ARRAY_BUFFER, quadBytes(coords[:]...), gl.DYNAMIC_DRAW)
	s.dev.VertexAttribPointer(s.a["texCoord"], 2, gl.FLOAT, false, 0, 0)
}

// StockPrograms are the programs every Renderer provides.
type StockPrograms struct {
	Solid   *SolidShader
	Texture *TextureShader
	Shadow  *TextureShader
}

// NewStockPrograms declares the stock programs and registers them with m.
func NewStockPrograms(m *ShaderManager) *StockPrograms {
	p := &StockPrograms{
		Solid:   NewSolidShader(),
		Texture: NewTextureShader(),
		Shadow:  NewShadowShader(),
	}
	for _, prog := range []ShaderProgram{p.Solid, p.Texture, p.Shadow} {
		if err := m.Register(prog); err != nil {
			Logger().Warn("stock program failed to compile", "program", prog.Name(), "err", err)
		}
	}
	return p
}
