package model

// CollectionMarks holds one document per subject and exam type.
const CollectionMarks = "marks"

// MarkEntry is a single assessment component. Order within Marks.Marks is
// the display order.
type MarkEntry struct {
	Name  *string `json:"name" bson:"name" binding:"required"`
	Mark  *string `json:"mark" bson:"mark" binding:"required"`
	Total *string `json:"total" bson:"total" binding:"required"`
}

// Marks is a subject's marks for one exam type. Total is optional and
// nullable.
type Marks struct {
	ID     string      `json:"_id,omitempty" bson:"_id,omitempty"`
	Name   *string     `json:"name" bson:"name" binding:"required"`
	Code   *string     `json:"code" bson:"code" binding:"required"`
	Type   *string     `json:"type" bson:"type" binding:"required"`
	Marks  []MarkEntry `json:"marks" bson:"marks" binding:"required,dive"`
	Credit *string     `json:"credit" bson:"credit" binding:"required"`
	Total  *string     `json:"total" bson:"total"`
}

// SeedMarksRequest is the payload for POST /seed/marks.
type SeedMarksRequest struct {
	Items []Marks `json:"items" binding:"required,dive"`
}

// Records returns the items in submission order without client supplied ids.
func (r SeedMarksRequest) Records() []Marks {
	out := make([]Marks, 0, len(r.Items))
	for _, item := range r.Items {
		item.ID = ""
		out = append(out, item)
	}
	return out
}
