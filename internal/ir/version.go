package ir

// Version constants for report schema and tool.
const (
	// SchemaVersion is the report schema version. Bump it when Report fields change.
	SchemaVersion = "1"

	// ToolVersion is the depwhy release.
	ToolVersion = "0.3.0"
)
