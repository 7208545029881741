package flow

import (
	"fmt"

	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// Row is one card on the plant list.
type Row struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DateAdded string `json:"date_added"`
	PhotoURI  string `json:"photo_uri,omitempty"`
}

// ListScreen shows the catalogue and starts the add and edit sequences.
type ListScreen struct {
	s *Screens
}

// List returns the plant list screen.
func (s *Screens) List() *ListScreen {
	return &ListScreen{s: s}
}

// Rows returns one row per record in catalogue order.
func (l *ListScreen) Rows() []Row {
	plants := l.s.cat.Plants()
	rows := make([]Row, 0, len(plants))
	for _, p := range plants {
		row := Row{ID: p.ID, Name: p.Name, DateAdded: p.DateAdded}
		if p.Photo != nil {
			row.PhotoURI = p.Photo.URI
		}
		rows = append(rows, row)
	}
	return rows
}

// Empty reports whether there is nothing to show yet.
func (l *ListScreen) Empty() bool {
	return l.s.cat.Len() == 0
}

// StartAdd clears every draft field and routes to the capture screen for a
// new record.
func (l *ListScreen) StartAdd() Route {
	l.s.cat.ResetDrafts()
	return Route{Screen: ScreenCapture}
}

// Open routes to the edit screen for the record with the given ID.
// Returns types.ErrNotFound if there is no such record.
func (l *ListScreen) Open(id string) (Route, error) {
	p, ok := l.s.cat.Plant(id)
	if !ok {
		return Route{}, fmt.Errorf("open %q: %w", id, types.ErrNotFound)
	}
	return Route{Screen: ScreenEdit, Plant: &p}, nil
}
