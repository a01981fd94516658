package models

// QuotesResponse is the body returned by every quote endpoint
type QuotesResponse struct {
	AsOf     string             `json:"asOf"`
	Items    []InstrumentResult `json:"items"`
	Warnings []Warning          `json:"warnings,omitempty"`
}

// QuotesRequest is the body accepted by POST /quotes
type QuotesRequest struct {
	Instruments  []Instrument  `json:"instruments" binding:"required,min=1,dive"`
	AsOf         *FlexibleDate `json:"as_of"`
	Fundamentals bool          `json:"fundamentals"`
}

// SetListItem describes a configured instrument set
type SetListItem struct {
	Name        string       `json:"name"`
	Instruments []Instrument `json:"instruments"`
}

// PingResponse is returned by GET /ping
type PingResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
