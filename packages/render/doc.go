// Package render is the drawing core of Artenus: off-screen render targets,
// shader programs and their registry, the stateful RenderingContext every
// renderable draws through, and the multi-pass post-processing filter chain.
//
// All calls are issued synchronously on the goroutine that owns the GL
// context. Nothing in this package is safe for concurrent use.
//
// A frame goes through the Renderer like this:
//
//	scene ─▶ frame RenderTarget ─▶ filter 1 (1..N passes) ─▶ ... ─▶ filter N ─▶ screen
//
// Every pass of every filter reads the previous pass output and writes either
// a fresh ping-pong target or, for in-place passes, its own input.
package render
