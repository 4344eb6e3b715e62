// Command artenus runs a small demo scene on the rendering core: a ring of
// spinning sprites with drop shadows, post-processed by the filters listed
// in the configuration file.
//
// Touch (or click) to move the centre sprite, press S to save a screenshot.
package main

import (
	"flag"
	"image"
	"image/color"
	"log/slog"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/artenus-engine/Artenus-GO/packages/config"
	"github.com/artenus-engine/Artenus-GO/packages/filters"
	"github.com/artenus-engine/Artenus-GO/packages/render"
	"github.com/artenus-engine/Artenus-GO/packages/scene"
)

const (
	ringSize   = 6
	spriteSize = 96
	statsEvery = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "artenus.toml", "configuration file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("using default configuration", "err", err)
		cfg = config.Default()
	}

	d, err := newDemo(cfg, logger)
	if err != nil {
		logger.Error("demo setup failed", "err", err)
		os.Exit(1)
	}
	app.Main(d.run)
}

// demo owns the renderer and the scene. It is a render.ContextListener so
// the sprite texture follows the graphics context.
type demo struct {
	cfg    *config.Config
	log    *slog.Logger
	r      *render.Renderer
	layer  *scene.Layer
	focus  *scene.Sprite
	ring   []*scene.Sprite
	img    image.Image
	tex    *scene.Texture
	last   time.Time
	logged time.Time
}

func newDemo(cfg *config.Config, logger *slog.Logger) (*demo, error) {
	d := &demo{
		cfg: cfg,
		log: logger,
		r: render.NewRenderer(render.Options{
			LogicalWidth:  cfg.Video.LogicalWidth,
			LogicalHeight: cfg.Video.LogicalHeight,
			ClearColor:    cfg.Video.ClearRGBA(),
		}),
		layer: scene.NewLayer(),
		img:   discImage(128),
	}

	list, err := filters.FromConfig(cfg.Filters)
	if err != nil {
		return nil, err
	}
	for _, f := range list {
		d.r.Filters().Add(f)
	}

	shadow := render.Color{A: 0.5}
	for i := 0; i < ringSize; i++ {
		s := scene.NewSprite(nil, spriteSize, spriteSize)
		s.Spin = 45 + 15*float32(i)
		hue := 360 * float64(i) / ringSize
		c := colorful.Hsv(hue, 0.6, 1)
		s.Color = render.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1}
		d.ring = append(d.ring, s)
		d.layer.Add(filters.NewDropShadow(s, 6, -6, shadow))
	}
	d.focus = scene.NewSprite(nil, spriteSize*1.5, spriteSize*1.5)
	d.focus.OnTouch = func(s *scene.Sprite, x, y float32) {
		s.Spin = -s.Spin
	}
	d.focus.Spin = 30
	d.layer.Add(filters.NewDropShadow(d.focus, 10, -10, shadow))

	d.r.SetScene(d.layer)
	d.r.AddContextListener(d)
	return d, nil
}

func (d *demo) ContextCreated(dev render.Device) {
	tex, err := scene.NewTexture(dev, d.img, d.cfg.Video.MaxTextureSize)
	if err != nil {
		d.log.Error("sprite texture", "err", err)
		return
	}
	d.tex = tex
	d.focus.Texture = tex
	for _, s := range d.ring {
		s.Texture = tex
	}
}

func (d *demo) ContextLost() {
	if d.tex != nil {
		d.tex.Dispose()
		d.tex = nil
	}
	d.focus.Texture = nil
	for _, s := range d.ring {
		s.Texture = nil
	}
}

func (d *demo) run(a app.App) {
	for e := range a.Events() {
		switch e := a.Filter(e).(type) {
		case lifecycle.Event:
			if err := d.r.HandleLifecycle(e); err != nil {
				d.log.Error("graphics context", "err", err)
			}
			if e.Crosses(lifecycle.StageVisible) == lifecycle.CrossOn {
				d.last = time.Now()
				a.Send(paint.Event{})
			}
			if e.Crosses(lifecycle.StageAlive) == lifecycle.CrossOff {
				return
			}
		case size.Event:
			d.r.HandleSize(e)
			d.layout()
		case paint.Event:
			if e.External || !d.r.Ready() {
				continue
			}
			d.frame()
			a.Publish()
			a.Send(paint.Event{})
		case touch.Event:
			if e.Type != touch.TypeBegin {
				continue
			}
			x, y := d.r.Context().ToLogical(e.X, e.Y)
			if !d.layer.Touch(x, y) {
				d.focus.MoveTo(x, y)
			}
		case key.Event:
			if e.Code == key.CodeS && e.Direction == key.DirPress {
				d.screenshot()
			}
		}
	}
}

// layout places the ring around the centre of the logical screen.
func (d *demo) layout() {
	ctx := d.r.Context()
	cx, cy := ctx.Width()/2, ctx.Height()/2
	radius := math32.Min(cx, cy) * 0.65
	for i, s := range d.ring {
		angle := 2 * math32.Pi * float32(i) / ringSize
		s.MoveTo(cx+radius*math32.Cos(angle), cy+radius*math32.Sin(angle))
	}
	d.focus.MoveTo(cx, cy)
}

func (d *demo) frame() {
	now := time.Now()
	dt := float32(now.Sub(d.last).Seconds())
	d.last = now
	d.layer.Advance(dt)
	d.r.DrawFrame()

	if now.Sub(d.logged) >= statsEvery {
		d.logged = now
		st := d.r.Stats()
		d.log.Debug("frame stats", "fps", st.FPS, "draw_calls", st.DrawCalls, "frames", st.Frames)
	}
}

func (d *demo) screenshot() {
	if err := d.r.SaveScreenshot(d.cfg.Video.ScreenshotPath); err != nil {
		d.log.Error("screenshot", "err", err)
	}
}

// discImage draws a white disc with a soft edge; sprites tint it.
func discImage(n int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	r := float32(n) / 2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx, dy := float32(x)+0.5-r, float32(y)+0.5-r
			dist := math32.Sqrt(dx*dx + dy*dy)
			a := math32.Max(0, math32.Min(1, r-dist))
			shade := uint8(255 - 80*dist/r*a)
			img.SetNRGBA(x, y, color.NRGBA{shade, shade, shade, uint8(255 * a)})
		}
	}
	return img
}
