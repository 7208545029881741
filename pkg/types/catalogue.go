package types

import "errors"

// Drafts holds the scratch fields for the record currently being composed
// or edited. Drafts are not part of the catalogue until a form commits them.
type Drafts interface {
	// Photo returns the pending photo, or nil when none is staged.
	Photo() *Photo

	// Name returns the pending plant name.
	Name() string

	// Notes returns the pending notes.
	Notes() string

	// SetPhoto replaces the pending photo. No validation is applied.
	SetPhoto(p *Photo)

	// ClearPhoto sets the pending photo to nil.
	ClearPhoto()

	// SetName replaces the pending name verbatim, including the empty string.
	SetName(name string)

	// SetNotes replaces the pending notes verbatim, including the empty string.
	SetNotes(notes string)

	// ResetDrafts empties the name and notes and clears the photo.
	ResetDrafts()
}

// Catalogue is the ordered collection of committed plant records together
// with the draft fields used while a record is composed.
type Catalogue interface {
	Drafts

	// Plants returns the records in insertion order. The slice is a copy.
	Plants() []Plant

	// Plant returns the record with the given ID.
	Plant(id string) (Plant, bool)

	// Len returns the number of records.
	Len() int

	// AddPlant appends the record to the end of the catalogue.
	// Returns ErrInvalidID for an empty ID and ErrDuplicateID when the ID
	// is already present; the catalogue is unchanged in both cases.
	AddPlant(p Plant) error

	// EditPlant replaces, in place, the record whose ID matches p.ID and
	// reports whether a record was replaced. When nothing matches the
	// catalogue is left unchanged.
	EditPlant(p Plant) bool

	// Subscribe registers fn to receive an Event after every mutation.
	// The returned function removes the subscription and is idempotent.
	Subscribe(fn func(Event)) (cancel func())
}

// Catalogue errors.
var (
	ErrNotFound    = errors.New("plant not found")
	ErrInvalidID   = errors.New("invalid plant ID")
	ErrDuplicateID = errors.New("plant ID already in catalogue")
)

// Form errors. Neither one mutates the catalogue.
var (
	ErrNameRequired = errors.New("plant name is required")
	ErrNoPhoto      = errors.New("no photo captured")
)
