package types

// StatusData represents the inner payload
type StatusData struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Width    string `json:"width"`
	Height   string `json:"height"`
	FileName string `json:"fileName,omitempty"`
	URL      string `json:"resizedImageUrl,omitempty"`
	ErrorMsg string `json:"errorMsg,omitempty"`
}

// StatusMessage represents the full message envelope
type StatusMessage struct {
	Pattern string     `json:"pattern"`
	Data    StatusData `json:"data"`
}

const ENCODING = "ENCODING"
const REQUESTING = "REQUESTING"
const DONE = "DONE"
const FAILED = "FAILED"
