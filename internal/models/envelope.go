package models

import "time"

// Data provenance reported in every API response so callers can tell
// fresh-from-cache, fresh-from-storage and stale-on-error apart.
const (
	SourceCache      = "cache"
	SourceStorage    = "storage"
	SourceStaleCache = "stale-cache"
)

// ApiResponse is the envelope every read-service call returns.
type ApiResponse struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message,omitempty"`
	Data           any       `json:"data,omitempty"`
	LastUpdatedUTC time.Time `json:"lastUpdatedUTC,omitempty"`
	Source         string    `json:"source,omitempty"`
}

// OkResponse builds a success envelope.
func OkResponse(data any, lastUpdated time.Time, source string) ApiResponse {
	return ApiResponse{
		Success:        true,
		Data:           data,
		LastUpdatedUTC: lastUpdated,
		Source:         source,
	}
}

// FailResponse builds a failure envelope with a caller-facing message.
func FailResponse(message string) ApiResponse {
	return ApiResponse{Success: false, Message: message}
}
