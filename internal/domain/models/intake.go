package models

// SitesResponse mirrors the GET body of the intake endpoint: either a site
// list or an explicit error.
type SitesResponse struct {
	Sites []string `json:"sites,omitempty"`
	Error string   `json:"error,omitempty"`
}

// SubmissionResult mirrors the POST body of the intake endpoint.
type SubmissionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	// Raw holds the undecoded response body; it is never serialized.
	Raw string `json:"-"`
}
