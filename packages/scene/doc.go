// Package scene provides the entities drawn by the rendering core: image
// textures, sprites, and layers that group entities by capability.
package scene
