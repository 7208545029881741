// Package catalogue implements the in-memory plant catalogue store: an
// ordered collection of plant records plus the draft fields used while a
// record is composed or edited.
package catalogue

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/plantbook/pkg/types"
)

var _ types.Catalogue = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the function used to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store implements types.Catalogue in memory. State lives for the lifetime
// of the process. A Store is not safe for concurrent use; callers drive it
// from a single goroutine.
type Store struct {
	plants []types.Plant
	index  map[string]int // plant ID -> position in plants

	photo *types.Photo
	name  string
	notes string

	now     func() time.Time
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(types.Event)
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		index: make(map[string]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Photo returns a copy of the pending photo, or nil.
func (s *Store) Photo() *types.Photo {
	return s.photo.Clone()
}

// Name returns the pending name.
func (s *Store) Name() string {
	return s.name
}

// Notes returns the pending notes.
func (s *Store) Notes() string {
	return s.notes
}

// SetPhoto replaces the pending photo. A nil photo is stored as nil.
func (s *Store) SetPhoto(p *types.Photo) {
	s.photo = p.Clone()
	s.emit(types.EventPhotoSet, "")
}

// ClearPhoto sets the pending photo to nil.
func (s *Store) ClearPhoto() {
	s.photo = nil
	s.emit(types.EventPhotoCleared, "")
}

// SetName replaces the pending name verbatim.
func (s *Store) SetName(name string) {
	s.name = name
	s.emit(types.EventNameSet, "")
}

// SetNotes replaces the pending notes verbatim.
func (s *Store) SetNotes(notes string) {
	s.notes = notes
	s.emit(types.EventNotesSet, "")
}

// ResetDrafts empties the name and notes and clears the photo.
func (s *Store) ResetDrafts() {
	s.SetName("")
	s.SetNotes("")
	s.ClearPhoto()
}

// Plants returns a copy of the catalogue in insertion order. The result is
// never nil.
func (s *Store) Plants() []types.Plant {
	out := make([]types.Plant, 0, len(s.plants))
	for _, p := range s.plants {
		out = append(out, p.Clone())
	}
	return out
}

// Plant returns a copy of the record with the given ID.
func (s *Store) Plant(id string) (types.Plant, bool) {
	i, ok := s.index[id]
	if !ok {
		return types.Plant{}, false
	}
	return s.plants[i].Clone(), true
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.plants)
}

// AddPlant appends p to the end of the catalogue. The caller generates the
// ID and the date. Empty and duplicate IDs are rejected without mutation.
func (s *Store) AddPlant(p types.Plant) error {
	if p.ID == "" {
		return types.ErrInvalidID
	}
	if _, ok := s.index[p.ID]; ok {
		return fmt.Errorf("%w: %s", types.ErrDuplicateID, p.ID)
	}

	s.index[p.ID] = len(s.plants)
	s.plants = append(s.plants, p.Clone())
	s.emit(types.EventPlantAdded, p.ID)
	return nil
}

// EditPlant replaces the record whose ID equals p.ID, keeping its position.
// Returns false and leaves the catalogue unchanged when no record matches.
func (s *Store) EditPlant(p types.Plant) bool {
	i, ok := s.index[p.ID]
	if !ok {
		return false
	}

	s.plants[i] = p.Clone()
	s.emit(types.EventPlantEdited, p.ID)
	return true
}

// Subscribe registers fn for every subsequent event. Subscribers are called
// synchronously, in subscription order, after the state has changed.
func (s *Store) Subscribe(fn func(types.Event)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// emit delivers an event to a snapshot of the current subscribers, so a
// subscriber may cancel itself or others while being notified.
func (s *Store) emit(kind, plantID string) {
	if len(s.subs) == 0 {
		return
	}
	evt := types.Event{Kind: kind, PlantID: plantID, At: s.now()}
	subs := append([]subscriber(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(evt)
	}
}
