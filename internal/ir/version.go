package ir

// Version constants for IR documents and the engine.
const (
	// IRVersion is the IR document schema version.
	IRVersion = "1.0.0"

	// EngineVersion is the QLite engine version recorded with stored runs.
	EngineVersion = "0.1.0"
)
