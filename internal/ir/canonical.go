package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for a program, used only for
// content-addressed hashing.
//
// Key differences from standard json.Marshal:
//  1. Object keys sorted by UTF-16 code units (RFC 8785)
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. Angles are encoded as shortest round-trip decimal strings, so the
//     hash never depends on float formatting
func MarshalCanonical(p Program) ([]byte, error) {
	stmts := make([]any, len(p.Statements))
	for i, s := range p.Statements {
		obj, err := canonicalStatement(s)
		if err != nil {
			return nil, fmt.Errorf("statements[%d]: %w", i, err)
		}
		stmts[i] = obj
	}
	return marshalCanonical(map[string]any{
		"ir_version": IRVersion,
		"statements": stmts,
	})
}

func canonicalStatement(s Statement) (map[string]any, error) {
	switch st := s.(type) {
	case Declaration:
		return map[string]any{
			"kind":     "declaration",
			"register": st.Register,
			"size":     st.Size,
		}, nil
	case GateApplication:
		ops := make([]any, len(st.Operands))
		for i, q := range st.Operands {
			ops[i] = q
		}
		obj := map[string]any{
			"kind":     "gate",
			"gate":     string(st.Gate),
			"operands": ops,
		}
		if st.Angle != nil {
			obj["angle"] = FormatAngle(*st.Angle)
		}
		return obj, nil
	case Measurement:
		return map[string]any{
			"kind":          "measurement",
			"qubit":         st.Qubit,
			"classical_bit": st.ClassicalBit,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported statement type %T", s)
	}
}

// FormatAngle renders a float with the shortest representation that
// round-trips. Shared by hashing and code generation.
func FormatAngle(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(strconv.Itoa(val)), nil
	case int64:
		return []byte(strconv.FormatInt(val, 10)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := marshalCanonical(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := marshalCanonicalString(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := marshalCanonical(val[k])
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case float64, float32:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString produces a canonical JSON string with NFC
// normalization and without HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785. Go's default comparison uses UTF-8 bytes,
// which orders supplementary-plane characters differently.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
