package core

type Endpoint struct {
	Path      string
	Method    string
	Protected bool
	Metadata  EndpointMetadata
}

type EndpointMetadata struct {
	OperationID   string
	Description   string
	SuccessStatus int
}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
