package types

import "time"

// Event kinds. One event is emitted per successful mutation.
const (
	EventPhotoSet     = "photo_set"
	EventPhotoCleared = "photo_cleared"
	EventNameSet      = "name_set"
	EventNotesSet     = "notes_set"
	EventPlantAdded   = "plant_added"
	EventPlantEdited  = "plant_edited"
)

// Event describes a change to the catalogue or its draft fields.
type Event struct {
	Kind    string    `json:"kind"`
	PlantID string    `json:"plant,omitempty"` // Set for plant_added and plant_edited.
	At      time.Time `json:"ts"`
}
