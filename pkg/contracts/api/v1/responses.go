package api

import "time"

// DataResponse is the envelope of every successful view response
type DataResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  *int        `json:"count,omitempty"`
}

// NewDataResponse wraps data in a success envelope
func NewDataResponse(data interface{}) DataResponse {
	return DataResponse{Status: "success", Data: data}
}

// NewListResponse wraps a list and its length in a success envelope
func NewListResponse(data interface{}, count int) DataResponse {
	return DataResponse{Status: "success", Data: data, Count: &count}
}

// ReloadResponse reports the dataset installed by a reload
type ReloadResponse struct {
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	Flagged  int       `json:"flagged"`
	LoadedAt time.Time `json:"loaded_at"`
}
