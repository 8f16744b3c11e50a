package ir

// Version constants for report schema and engine.
const (
	// ReportVersion is the rendered report schema version.
	ReportVersion = "1"

	// EngineVersion is the prodnet engine version.
	EngineVersion = "0.1.0"
)
