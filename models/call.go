package models

// Call holds the structure for the call collection in mongo. The _id is an
// opaque string token assigned at insert time. LeadName is a snapshot of the
// lead's company name when the call was logged, not a foreign key.
type Call struct {
	ID           string `json:"id" bson:"_id"`
	LeadName     string `json:"leadName" bson:"leadName"`
	Caller       string `json:"caller" bson:"caller"`
	CallType     string `json:"callType" bson:"callType"`
	Duration     string `json:"duration" bson:"duration"`
	Outcome      string `json:"outcome" bson:"outcome"`
	Date         string `json:"date" bson:"date"`
	Time         string `json:"time" bson:"time"`
	Notes        string `json:"notes" bson:"notes"`
	NextAction   string `json:"nextAction" bson:"nextAction"`
	NextFollowUp string `json:"nextFollowUp" bson:"nextFollowUp"`
}

// NewCallPayload is the request payload for logging a call. The id, date and
// time are assigned by the server at insert time and are not accepted here.
type NewCallPayload struct {
	LeadName     string `json:"leadName" validate:"required"`
	Caller       string `json:"caller" validate:"required"`
	CallType     string `json:"callType" validate:"required,oneof=inbound outbound"`
	Duration     string `json:"duration"`
	Outcome      string `json:"outcome" validate:"required,oneof=interested not-interested qualified follow-up no-answer busy voicemail"`
	Notes        string `json:"notes"`
	NextAction   string `json:"nextAction"`
	NextFollowUp string `json:"nextFollowUp"`
}

// CallStats aggregates the read-side numbers the dashboard shows above the
// call table.
type CallStats struct {
	TotalCalls    int    `json:"totalCalls"`
	CallsToday    int    `json:"callsToday"`
	TotalDuration string `json:"totalDuration"`
}
