package apimodels

type StatusResponse struct {
	// When the capture loop started (RFC 3339)
	StartedAt string `json:"startedAt"`

	// Time since start, human readable
	Uptime string `json:"uptime"`

	// Current loop state
	State string `json:"state"`

	Counters Counters `json:"counters"`

	// Most recent exchange written to the log file
	LastExchange *Exchange `json:"lastExchange,omitempty"`
}

type Counters struct {
	Iterations        int64 `json:"iterations"`
	CaptureFailures   int64 `json:"captureFailures"`
	ExtractionSkipped int64 `json:"extractionSkipped"`
	Queries           int64 `json:"queries"`
	EntriesWritten    int64 `json:"entriesWritten"`
	LogWriteFailures  int64 `json:"logWriteFailures"`
}

type Exchange struct {
	CaptureID string `json:"captureId"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Response  string `json:"response"`
}
