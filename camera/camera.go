// Package camera fits the fixed-size game scene into a resizable window.
package camera

// Camera maps scene coordinates to window coordinates. The scene is scaled
// uniformly to fit the viewport and centred, leaving bars on the long axis.
type Camera struct {
	// Logical scene size
	SceneW, SceneH float32

	// Viewport dimensions (window size)
	ViewportW, ViewportH float32

	// Derived from the sizes above
	Zoom             float32
	OffsetX, OffsetY float32
}

// New creates a camera for a scene shown in a viewport.
func New(sceneW, sceneH, viewportW, viewportH float32) *Camera {
	c := &Camera{SceneW: sceneW, SceneH: sceneH}
	c.fit(viewportW, viewportH)
	return c
}

// Resize updates viewport dimensions and refits the scene.
// Returns false if nothing changed.
func (c *Camera) Resize(viewportW, viewportH float32) bool {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return false
	}
	c.fit(viewportW, viewportH)
	return true
}

func (c *Camera) fit(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	if c.SceneW <= 0 || c.SceneH <= 0 || viewportW <= 0 || viewportH <= 0 {
		c.Zoom, c.OffsetX, c.OffsetY = 0, 0, 0
		return
	}
	c.Zoom = min(viewportW/c.SceneW, viewportH/c.SceneH)
	c.OffsetX = (viewportW - c.SceneW*c.Zoom) / 2
	c.OffsetY = (viewportH - c.SceneH*c.Zoom) / 2
}

// SceneToScreen converts scene coordinates to window coordinates.
func (c *Camera) SceneToScreen(x, y float32) (sx, sy float32) {
	return c.OffsetX + x*c.Zoom, c.OffsetY + y*c.Zoom
}

// ScreenToScene converts window coordinates to scene coordinates.
func (c *Camera) ScreenToScene(sx, sy float32) (x, y float32) {
	if c.Zoom == 0 {
		return 0, 0
	}
	return (sx - c.OffsetX) / c.Zoom, (sy - c.OffsetY) / c.Zoom
}

// Contains reports whether a window point falls on the scene rather than
// the bars around it.
func (c *Camera) Contains(sx, sy float32) bool {
	x, y := c.ScreenToScene(sx, sy)
	return x >= 0 && y >= 0 && x < c.SceneW && y < c.SceneH
}

// Dest returns the window rectangle the scene is drawn into.
func (c *Camera) Dest() (x, y, w, h float32) {
	return c.OffsetX, c.OffsetY, c.SceneW * c.Zoom, c.SceneH * c.Zoom
}
