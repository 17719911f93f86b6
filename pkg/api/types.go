package api

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Bind string
	Port int
	// APIKey protects /api/v1; an empty key disables authentication.
	APIKey string
}

// RecordResponse is the JSON shape of a stored record.
type RecordResponse struct {
	ID     string                 `json:"id"`
	Schema string                 `json:"schema"`
	Fields map[string]interface{} `json:"fields"`
}

// EncodeResponse carries the wire image of an encoded record.
type EncodeResponse struct {
	Schema string `json:"schema"`
	Size   int    `json:"size"`
	// Data is the base64-encoded wire image.
	Data string `json:"data"`
}

// SchemaInfo summarizes a registered schema.
type SchemaInfo struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind"`
	Fields []FieldInfo `json:"fields"`
}

// FieldInfo is one field of a SchemaInfo.
type FieldInfo struct {
	Name string                 `json:"name"`
	Type string                 `json:"type"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}
