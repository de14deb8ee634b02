package wm

import (
	"github.com/google/uuid"

	"github.com/kraitsura/termfolio/pkg/model"
)

// Preview is the single transient overlay window.
type Preview struct {
	InstanceID string
	URL        string
	Source     string // Panel that was active when the preview opened
}

// PreviewOverlay owns at most one Preview. Closing destroys the instance;
// nothing is pooled.
type PreviewOverlay struct {
	current *Preview
	newID   func() string
}

// NewPreviewOverlay creates an overlay manager with random instance ids.
func NewPreviewOverlay() *PreviewOverlay {
	return &PreviewOverlay{newID: uuid.NewString}
}

// Open points the overlay at url, creating the instance on first use. A
// second Open while one is showing redirects it instead of stacking another.
// The source is kept from the first Open unless a different real panel is
// given.
func (o *PreviewOverlay) Open(url, source string) (p *Preview, created bool) {
	if o.current != nil {
		o.current.URL = url
		if source != "" && source != model.PreviewPanelID {
			o.current.Source = source
		}
		return o.current, false
	}
	o.current = &Preview{InstanceID: o.newID(), URL: url, Source: source}
	return o.current, true
}

// Close destroys the instance and returns it, or nil if none was open.
func (o *PreviewOverlay) Close() *Preview {
	p := o.current
	o.current = nil
	return p
}

// Current returns the open preview.
func (o *PreviewOverlay) Current() (*Preview, bool) {
	return o.current, o.current != nil
}

// IsOpen reports whether a preview is showing.
func (o *PreviewOverlay) IsOpen() bool {
	return o.current != nil
}
