package scene

import (
	"github.com/chewxy/math32"

	"github.com/artenus-engine/Artenus-GO/packages/render"
)

// spriteCoords maps the unit quad onto a texture uploaded top row first.
var spriteCoords = [8]float32{
	0, 1,
	1, 1,
	0, 0,
	1, 0,
}

// Sprite draws a texture as a rectangle in logical coordinates.
type Sprite struct {
	Texture *Texture

	// X and Y locate the centre of the sprite.
	X, Y          float32
	Width, Height float32
	// Rotation is in degrees, counter-clockwise.
	Rotation float32
	// Spin is added to Rotation per second by Advance.
	Spin  float32
	Color render.Color

	// OnTouch, when set, makes the sprite touchable.
	OnTouch func(s *Sprite, x, y float32)
}

// NewSprite returns a w×h sprite at the origin.
func NewSprite(tex *Texture, w, h float32) *Sprite {
	return &Sprite{Texture: tex, Width: w, Height: h, Color: render.White}
}

// Render draws the sprite with the texture program, or with the program
// already set when flags preserve it. In that case the colour filter is
// left alone too, so the caller's layer colour applies.
func (s *Sprite) Render(ctx render.RenderingContext, flags render.RenderFlags) {
	if !s.Texture.Valid() {
		return
	}
	render.UseShader(ctx, ctx.Programs().Texture, flags)
	if flags&render.FlagPreserveShaderProgram == 0 {
		ctx.SetColorFilter(s.Color.R, s.Color.G, s.Color.B, s.Color.A)
	}
	if feeder, ok := ctx.Shader().(render.TextureFeeder); ok {
		feeder.FeedTexture(s.Texture.Handle(), spriteCoords)
	}
	render.WithMatrix(ctx, func() {
		ctx.Translate(s.X, s.Y)
		if s.Rotation != 0 {
			ctx.Rotate(s.Rotation)
		}
		ctx.Scale(s.Width, s.Height)
		ctx.Rect()
	})
}

// Advance applies Spin, keeping Rotation in [0, 360).
func (s *Sprite) Advance(dt float32) {
	if s.Spin == 0 {
		return
	}
	r := math32.Mod(s.Rotation+s.Spin*dt, 360)
	if r < 0 {
		r += 360
	}
	s.Rotation = r
}

func (s *Sprite) MoveTo(x, y float32) {
	s.X, s.Y = x, y
}

// Contains reports whether the logical point lies inside the unrotated
// bounds.
func (s *Sprite) Contains(x, y float32) bool {
	return math32.Abs(x-s.X) <= s.Width/2 && math32.Abs(y-s.Y) <= s.Height/2
}

// Touch calls OnTouch if the point hits the sprite.
func (s *Sprite) Touch(x, y float32) bool {
	if s.OnTouch == nil || !s.Contains(x, y) {
		return false
	}
	s.OnTouch(s, x, y)
	return true
}
