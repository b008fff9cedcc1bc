package model

// Response is the envelope for error and rate-limit replies. Successful
// query and weather lookups encode their payloads directly, so Data is
// only populated by handlers that have nothing domain-shaped to return.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}
