// Package flow drives the catalogue the way the app's screens do: the plant
// list, the camera capture step, the creation form, and the edit form. Each
// screen is a plain struct over a types.Catalogue, so any front end (the CLI
// shell, a test) can walk the same add and edit sequences.
package flow

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// Screen names a step in the add/edit sequence.
type Screen string

// Screens reachable from the plant list.
const (
	ScreenList    Screen = "list"
	ScreenCapture Screen = "capture"
	ScreenCreate  Screen = "create"
	ScreenEdit    Screen = "edit"
)

// Route tells the caller which screen comes next and what it carries.
type Route struct {
	Screen   Screen
	EditMode bool         // Capture only: the photo replaces an existing record's.
	Plant    *types.Plant // Capture in edit mode, and the edit screen: the record being changed.
	Photo    *types.Photo // Creation form: the confirmed photo.
}

// Screens builds screen flows over one catalogue with injected capabilities
// for ID generation and date formatting.
type Screens struct {
	cat        types.Catalogue
	newID      func() string
	formatDate func(time.Time) string
	now        func() time.Time
}

// Option configures Screens.
type Option func(*Screens)

// WithIDGenerator sets the function that produces IDs for new records.
func WithIDGenerator(fn func() string) Option {
	return func(s *Screens) { s.newID = fn }
}

// WithDateLayout formats DateAdded with the given time layout.
func WithDateLayout(layout string) Option {
	return func(s *Screens) { s.formatDate = DateFormatter(layout) }
}

// WithClock sets the time source for DateAdded.
func WithClock(now func() time.Time) Option {
	return func(s *Screens) { s.now = now }
}

// New creates Screens over cat. By default IDs are UUID v7 and dates use
// types.DefaultDateLayout.
func New(cat types.Catalogue, opts ...Option) *Screens {
	s := &Screens{
		cat:        cat,
		newID:      NewID,
		formatDate: DateFormatter(types.DefaultDateLayout),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDateLayout changes the layout used for records created from now on.
// Existing records keep their stored DateAdded.
func (s *Screens) SetDateLayout(layout string) {
	s.formatDate = DateFormatter(layout)
}

// Catalogue returns the catalogue the screens operate on.
func (s *Screens) Catalogue() types.Catalogue {
	return s.cat
}

// NewID generates a new UUID v7 for a record.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// DateFormatter returns a function formatting dates in local time with layout.
func DateFormatter(layout string) func(time.Time) string {
	return func(t time.Time) string {
		return t.Local().Format(layout)
	}
}
