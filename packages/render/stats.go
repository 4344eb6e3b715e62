package render

import "time"

// Stats describes the last drawn frame.
type Stats struct {
	// DrawCalls is the number of Rect calls issued by the last frame,
	// filters and presentation included.
	DrawCalls int
	// FPS is the frame rate averaged over the last full second.
	FPS float64
	// Frames counts every frame drawn since the renderer was created.
	Frames uint64
}

// fpsCounter averages the frame rate over windows of at least one second.
type fpsCounter struct {
	now    func() time.Time
	start  time.Time
	frames int
	fps    float64
}

func newFPSCounter(now func() time.Time) *fpsCounter {
	return &fpsCounter{now: now, start: now()}
}

// tick records one frame and returns the current average.
func (c *fpsCounter) tick() float64 {
	c.frames++
	t := c.now()
	if dt := t.Sub(c.start).Seconds(); dt >= 1 {
		c.fps = float64(c.frames) / dt
		c.frames = 0
		c.start = t
	}
	return c.fps
}
