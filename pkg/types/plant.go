package types

// Photo is a handle to a captured image. Only the reference travels through
// the catalogue; pixel data is never loaded.
type Photo struct {
	URI    string `json:"uri"`              // Location of the captured image.
	Width  int    `json:"width,omitempty"`  // Pixel width reported by the camera, 0 if unknown.
	Height int    `json:"height,omitempty"` // Pixel height reported by the camera, 0 if unknown.
}

// Clone returns a copy of the photo handle. Cloning a nil photo returns nil.
func (p *Photo) Clone() *Photo {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Plant is a single record in the catalogue.
type Plant struct {
	ID        string `json:"id"`         // Opaque unique ID, generated on creation and never changed.
	Photo     *Photo `json:"photo"`      // Captured image; nil when the record has none.
	Name      string `json:"name"`       // Human-readable name (required, non-blank).
	DateAdded string `json:"date_added"` // Locale-formatted date of creation.
	Notes     string `json:"notes"`      // Free-form notes, may be empty.
}

// Clone returns a copy of the plant that shares no memory with the receiver.
func (p Plant) Clone() Plant {
	p.Photo = p.Photo.Clone()
	return p
}

// WithPhoto returns a copy of the plant carrying the given photo. The ID,
// name, notes and date are kept.
func (p Plant) WithPhoto(photo *Photo) Plant {
	p.Photo = photo.Clone()
	return p
}
