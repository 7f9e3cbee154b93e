package model

// CollectionAttendance holds one document per subject.
const CollectionAttendance = "attendance"

// Attendance is a subject's attendance summary. Every field is a pointer so
// that an absent or null field is rejected while "" and 0 are accepted. The
// same tags validate seed bodies and stored documents.
type Attendance struct {
	ID         string  `json:"_id,omitempty" bson:"_id,omitempty"`
	Code       *string `json:"code" bson:"code" binding:"required"`
	Title      *string `json:"title" bson:"title" binding:"required"`
	Category   *string `json:"category" bson:"category" binding:"required"`
	Faculty    *string `json:"faculty" bson:"faculty" binding:"required"`
	Slot       *string `json:"slot" bson:"slot" binding:"required"`
	Conducted  *int    `json:"conducted" bson:"conducted" binding:"required"`
	Absent     *int    `json:"absent" bson:"absent" binding:"required"`
	Percentage *string `json:"percetage" bson:"percetage" binding:"required"`
	Margin     *int    `json:"margin" bson:"margin" binding:"required"`
}

// SeedAttendanceRequest is the payload for POST /seed/attendance.
type SeedAttendanceRequest struct {
	Items []Attendance `json:"items" binding:"required,dive"`
}

// Records returns the items in submission order without client supplied ids.
func (r SeedAttendanceRequest) Records() []Attendance {
	out := make([]Attendance, 0, len(r.Items))
	for _, item := range r.Items {
		item.ID = ""
		out = append(out, item)
	}
	return out
}
