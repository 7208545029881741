package flow

import (
	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// CaptureScreen stages a photo in the draft fields and hands it on, either
// to the creation form or back to the edit screen.
type CaptureScreen struct {
	s        *Screens
	editMode bool
	original *types.Plant
}

// Capture returns the capture screen for the given route. A route in edit
// mode must carry the record whose photo is being replaced.
func (s *Screens) Capture(r Route) *CaptureScreen {
	c := &CaptureScreen{s: s}
	if r.EditMode && r.Plant != nil {
		p := r.Plant.Clone()
		c.editMode = true
		c.original = &p
	}
	return c
}

// EditMode reports whether the captured photo replaces an existing record's.
func (c *CaptureScreen) EditMode() bool {
	return c.editMode
}

// Capture stages a newly taken photo.
func (c *CaptureScreen) Capture(p *types.Photo) {
	c.s.cat.SetPhoto(p)
}

// Retake discards the staged photo.
func (c *CaptureScreen) Retake() {
	c.s.cat.ClearPhoto()
}

// Preview returns the staged photo, or nil while the camera is live.
func (c *CaptureScreen) Preview() *types.Photo {
	return c.s.cat.Photo()
}

// Confirm accepts the staged photo. In edit mode the photo is merged into a
// copy of the original record and routed to the edit screen; the catalogue
// is not touched until that screen submits. Otherwise the photo is routed to
// the creation form. The staged photo is cleared in both cases.
// Returns types.ErrNoPhoto if nothing is staged.
func (c *CaptureScreen) Confirm() (Route, error) {
	photo := c.s.cat.Photo()
	if photo == nil {
		return Route{}, types.ErrNoPhoto
	}

	var next Route
	if c.editMode {
		merged := c.original.WithPhoto(photo)
		next = Route{Screen: ScreenEdit, Plant: &merged}
	} else {
		next = Route{Screen: ScreenCreate, Photo: photo}
	}

	c.s.cat.ClearPhoto()
	return next, nil
}
