package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalProbabilities converts probabilities to JSON TEXT for storage.
// Zero entries are dropped; a 24-qubit run would otherwise store 2^24 keys.
// encoding/json sorts map keys, so output is deterministic.
func marshalProbabilities(probs map[string]float64) (string, error) {
	sparse := make(map[string]float64, len(probs))
	for k, p := range probs {
		if p != 0 {
			sparse[k] = p
		}
	}
	return marshalJSON(sparse)
}

func marshalMeasurements(ms []Measurement) (string, error) {
	if ms == nil {
		ms = []Measurement{}
	}
	return marshalJSON(ms)
}

// marshalJSON encodes v with HTML escaping disabled.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalProbabilities(data string) (map[string]float64, error) {
	probs := map[string]float64{}
	if data == "" {
		return probs, nil
	}
	if err := json.Unmarshal([]byte(data), &probs); err != nil {
		return nil, fmt.Errorf("unmarshal probabilities: %w", err)
	}
	return probs, nil
}

func unmarshalMeasurements(data string) ([]Measurement, error) {
	ms := []Measurement{}
	if data == "" {
		return ms, nil
	}
	if err := json.Unmarshal([]byte(data), &ms); err != nil {
		return nil, fmt.Errorf("unmarshal measurements: %w", err)
	}
	return ms, nil
}
