package flow

import (
	"fmt"

	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// CreateForm collects a name and notes for a freshly captured photo and
// commits the new record.
type CreateForm struct {
	s     *Screens
	photo *types.Photo
}

// CreateForm returns the creation form for the confirmed photo, which may be nil.
func (s *Screens) CreateForm(photo *types.Photo) *CreateForm {
	return &CreateForm{s: s, photo: photo.Clone()}
}

// Photo returns the photo the new record will carry.
func (f *CreateForm) Photo() *types.Photo {
	return f.photo.Clone()
}

// Submit validates the draft name and adds a new record built from the
// form's photo, the draft name and notes, a generated ID, and today's date.
// On a validation error the catalogue is left untouched.
func (f *CreateForm) Submit() (types.Plant, error) {
	cat := f.s.cat
	if err := validateDrafts(cat); err != nil {
		return types.Plant{}, err
	}

	p := types.Plant{
		ID:        f.s.newID(),
		Photo:     f.photo.Clone(),
		Name:      cat.Name(),
		DateAdded: f.s.formatDate(f.s.now()),
		Notes:     cat.Notes(),
	}
	if err := cat.AddPlant(p); err != nil {
		return types.Plant{}, fmt.Errorf("add plant: %w", err)
	}
	return p, nil
}

// EditForm changes the name, notes, or photo of an existing record.
type EditForm struct {
	s     *Screens
	plant types.Plant
}

// EditForm returns the edit form for the given record. Call Enter before
// reading the drafts.
func (s *Screens) EditForm(p types.Plant) *EditForm {
	return &EditForm{s: s, plant: p.Clone()}
}

// Plant returns the record as it was when the form was opened.
func (f *EditForm) Plant() types.Plant {
	return f.plant.Clone()
}

// Enter seeds the draft fields from the record.
func (f *EditForm) Enter() {
	cat := f.s.cat
	cat.SetName(f.plant.Name)
	cat.SetNotes(f.plant.Notes)
	cat.SetPhoto(f.plant.Photo)
}

// ChangePhoto routes to the capture screen in edit mode for this record.
func (f *EditForm) ChangePhoto() Route {
	p := f.plant.Clone()
	return Route{Screen: ScreenCapture, EditMode: true, Plant: &p}
}

// Submit validates the draft name and replaces the record with the drafts
// merged in. ID and DateAdded are kept. Returns types.ErrNotFound when the
// record is no longer in the catalogue.
func (f *EditForm) Submit() (types.Plant, error) {
	cat := f.s.cat
	if err := validateDrafts(cat); err != nil {
		return types.Plant{}, err
	}

	updated := f.plant.Clone()
	updated.Photo = cat.Photo()
	updated.Name = cat.Name()
	updated.Notes = cat.Notes()

	if !cat.EditPlant(updated) {
		return types.Plant{}, fmt.Errorf("edit plant %q: %w", updated.ID, types.ErrNotFound)
	}
	f.plant = updated.Clone()
	return updated, nil
}
