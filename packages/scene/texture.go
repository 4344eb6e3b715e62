package scene

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/mobile/gl"

	"github.com/artenus-engine/Artenus-GO/packages/render"
)

// Texture is an image uploaded to the GPU as straight-alpha RGBA. Row 0 of
// the image is stored first, so it lands at the bottom of GL texture space.
type Texture struct {
	dev      render.Device
	handle   gl.Texture
	width    int
	height   int
	filter   bool
	disposed bool
}

// NewTexture uploads img. When maxSize is positive and the longest side of
// img exceeds it, the image is scaled down first, keeping its aspect
// ratio.
func NewTexture(dev render.Device, img image.Image, maxSize int) (*Texture, error) {
	if dev == nil {
		return nil, render.ErrNoDevice
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.Wrapf(render.ErrInvalidSize, "texture %dx%d", b.Dx(), b.Dy())
	}
	w, h := fitSize(b.Dx(), b.Dy(), maxSize)

	pix := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(pix, pix.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(pix, pix.Bounds(), img, b, draw.Src, nil)
		render.Logger().Debug("texture scaled down",
			"from", b.Size().String(), "to", pix.Bounds().Size().String())
	}

	t := &Texture{dev: dev, width: w, height: h, filter: true}
	t.handle = dev.CreateTexture()
	t.SetData(pix.Pix)
	return t, nil
}

// LoadTexture decodes a PNG, JPEG, BMP or WebP image from r and uploads it.
func LoadTexture(dev render.Device, r io.Reader, maxSize int) (*Texture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode texture")
	}
	render.Logger().Debug("texture decoded", "format", format, "size", img.Bounds().Size().String())
	return NewTexture(dev, img, maxSize)
}

// fitSize scales w×h down so that neither side exceeds maxSize.
func fitSize(w, h, maxSize int) (int, int) {
	longest := max(w, h)
	if maxSize <= 0 || longest <= maxSize {
		return w, h
	}
	return max(w*maxSize/longest, 1), max(h*maxSize/longest, 1)
}

// SetData binds the texture and uploads width×height RGBA texels to it.
func (t *Texture) SetData(data []byte) {
	interp := gl.NEAREST
	if t.filter {
		interp = gl.LINEAR
	}
	t.dev.ActiveTexture(gl.TEXTURE0)
	t.dev.BindTexture(gl.TEXTURE_2D, t.handle)
	t.dev.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, data)
	t.dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, interp)
	t.dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, interp)
	t.dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	t.dev.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// Valid reports whether the texture holds a live GPU handle.
func (t *Texture) Valid() bool {
	return t != nil && !t.disposed && t.width != 0 && t.height != 0 && t.handle.Value != 0
}

func (t *Texture) Handle() gl.Texture { return t.handle }
func (t *Texture) Width() int         { return t.width }
func (t *Texture) Height() int        { return t.height }

// Dispose deletes the GPU texture. Later calls do nothing.
func (t *Texture) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.dev.DeleteTexture(t.handle)
	t.handle = gl.Texture{}
}
