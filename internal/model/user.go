package model

// CollectionUser is expected to hold a single meaningful profile.
const CollectionUser = "user"

// User is the student profile.
type User struct {
	ID             string  `json:"_id,omitempty" bson:"_id,omitempty"`
	Roll           *string `json:"roll" bson:"roll" binding:"required"`
	Name           *string `json:"name" bson:"name" binding:"required"`
	Program        *string `json:"program" bson:"program" binding:"required"`
	Department     *string `json:"department" bson:"department" binding:"required"`
	Specialisation *string `json:"specialisation" bson:"specialisation" binding:"required"`
	Semester       *string `json:"semester" bson:"semester" binding:"required"`
	Batch          *string `json:"batch" bson:"batch" binding:"required"`
	Section        *string `json:"section" bson:"section" binding:"required"`
}

// SeedUserRequest is the payload for POST /seed/user.
type SeedUserRequest struct {
	Item *User `json:"item" binding:"required"`
}

// Record returns the canonical record, dropping any client supplied id.
func (r SeedUserRequest) Record() User {
	if r.Item == nil {
		return User{}
	}
	u := *r.Item
	u.ID = ""
	return u
}
