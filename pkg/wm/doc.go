/*
Package wm is the interaction core of termfolio.

It keeps the state of a set of terminal-styled panels laid out on one screen
and decides how input changes that state:
  - Panel registry with a dense z-order stack and a single active panel
  - Drag sessions clamped to the panel container
  - Tab groups switched by click, arrow keys or horizontal swipe
  - Cross-references between citation markers and the references panel
  - A single transient preview overlay
  - Desktop and compact behavior sets chosen from the screen width

The package never draws anything. A frontend measures the screen, registers
the interactive surfaces it rendered, forwards input to the Controller and
renders from the resulting state. Timers are expressed as generation tokens
returned in Effects so the frontend can schedule them on its own event loop.

Example usage:

	c := wm.NewController(doc, wm.DefaultOptions(), measure)
	c.SettleResize(c.Resize())
	fx := c.PointerDown(model.Point{X: 10, Y: 3})
	if fx.NeedFrame {
		// schedule c.Frame() on the next display refresh
	}
*/
package wm
