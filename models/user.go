package models

// User holds the structure for the user collection in mongo. These are the
// staff members that appear as lead assignees and call callers, stored flat
// with an integer _id assigned from the counters collection.
type User struct {
	ID         int    `json:"id" bson:"_id"`
	Name       string `json:"name" bson:"name"`
	Email      string `json:"email" bson:"email"`
	Phone      string `json:"phone" bson:"phone"`
	Role       string `json:"role" bson:"role"`
	Department string `json:"department" bson:"department"`
	Status     string `json:"status" bson:"status"`
}

// NewUser is the request payload for creating a user. Department and status
// fall back to defaults when left empty.
type NewUser struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
	Status     string `json:"status"`
}
