package model

// CollectionTimetable is expected to hold a single meaningful document.
const CollectionTimetable = "timetable"

// TimetableData is stored as-is: outer key → inner key → field mapping.
// Both nested levels must be mappings, null is rejected. Leaf values are not
// interpreted.
type TimetableData map[string]map[string]map[string]any

// Timetable wraps the opaque timetable structure.
type Timetable struct {
	ID   string        `json:"_id,omitempty" bson:"_id,omitempty"`
	Data TimetableData `json:"data" bson:"data" binding:"required,dive,required,dive,required"`
}

// EmptyTimetable is returned when no timetable has been seeded.
func EmptyTimetable() Timetable {
	return Timetable{Data: TimetableData{}}
}

// SeedTimetableRequest is the payload for POST /seed/timetable.
type SeedTimetableRequest struct {
	Item *Timetable `json:"item" binding:"required"`
}

// Record returns the canonical record, dropping any client supplied id.
func (r SeedTimetableRequest) Record() Timetable {
	if r.Item == nil {
		return EmptyTimetable()
	}
	return Timetable{Data: r.Item.Data}
}
