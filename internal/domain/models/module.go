package models

import "time"

// ModuleEntry is one damaged-module record entered on the form.
type ModuleEntry struct {
	Serial        string `json:"serial" bson:"serial"`
	Damage        string `json:"damage" bson:"damage"`
	DateReceiving string `json:"dateReceiving" bson:"date_receiving"` // '' or YYYY-MM-DD
}

// Submission is the payload posted to the intake endpoint.
type Submission struct {
	Site     string        `json:"site"`
	Pallet   string        `json:"pallet"`
	Modules  []ModuleEntry `json:"modules"`
	Engineer string        `json:"engineer"`
}

// SubmissionRecord is the archived copy of an accepted submission.
type SubmissionRecord struct {
	Site       string        `bson:"site" json:"site"`
	Pallet     string        `bson:"pallet" json:"pallet"`
	Engineer   string        `bson:"engineer" json:"engineer"`
	Modules    []ModuleEntry `bson:"modules" json:"modules"`
	RowCount   int           `bson:"row_count" json:"row_count"`
	ReceivedAt time.Time     `bson:"received_at" json:"received_at"`
}
