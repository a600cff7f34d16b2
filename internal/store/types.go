package store

// Run is one stored simulation.
type Run struct {
	ID            string             `json:"id"`
	Seq           int64              `json:"seq"`
	ProgramHash   string             `json:"program_hash"`
	ProgramName   string             `json:"program_name,omitempty"`
	QubitCount    int                `json:"qubit_count"`
	Seed          uint64             `json:"seed"`
	QASM          string             `json:"qasm,omitempty"`
	Probabilities map[string]float64 `json:"probabilities"`
	Measurements  []Measurement      `json:"measurements"`
	EngineVersion string             `json:"engine_version"`
	IRVersion     string             `json:"ir_version"`
}

// Measurement is one recorded measurement of a run.
type Measurement struct {
	Qubit        int    `json:"qubit"`
	ClassicalBit string `json:"classical_bit"`
	Outcome      string `json:"outcome"`
	Value        int    `json:"value"`
}

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	ProgramHash string
	Limit       int
}
