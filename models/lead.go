package models

import "time"

// Lead holds the structure for the lead collection in mongo. Documents are
// stored flat with an integer _id assigned from the counters collection.
type Lead struct {
	ID               int        `json:"id" bson:"_id"`
	CompanyName      string     `json:"companyName" bson:"companyName"`
	Email            string     `json:"email" bson:"email"`
	ContactPerson    string     `json:"contactPerson" bson:"contactPerson"`
	Phone            string     `json:"phone" bson:"phone"`
	Assignee         string     `json:"assignee" bson:"assignee"`
	Priority         string     `json:"priority" bson:"priority"`
	Status           string     `json:"status" bson:"status"`
	Notes            string     `json:"notes" bson:"notes"`
	NextFollowUpDate *time.Time `json:"nextFollowUpDate" bson:"nextFollowUpDate"`
}

// NewLead is the request payload for creating a lead and for replacing one on
// update. The id is never client-supplied. NextFollowUpDate arrives as an ISO
// date string; an empty value stores as null.
type NewLead struct {
	CompanyName      string `json:"companyName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	ContactPerson    string `json:"contactPerson" validate:"required"`
	Phone            string `json:"phone"`
	Assignee         string `json:"assignee"`
	Priority         string `json:"priority" validate:"required,oneof=low medium high"`
	Status           string `json:"status" validate:"required,oneof=new contacted qualified proposal won lost"`
	Notes            string `json:"notes"`
	NextFollowUpDate string `json:"nextFollowUpDate"`
}
