package operations

import (
	"fmt"
	"path/filepath"
	"strings"
)

// WireChain returns the encoding a device applies to its status document.
// The plain endpoint sends JSON as is; the encrypted endpoint hex-encodes the
// body and XORs it first when the device has a key.
func WireChain(useEncryption bool, hasKey bool) []uint8 {
	switch {
	case !useEncryption:
		return []uint8{}
	case hasKey:
		return []uint8{OP_XOR, OP_HEX}
	default:
		return []uint8{OP_HEX}
	}
}

// CaptureChain picks the compression for a capture file from its extension.
func CaptureChain(path string) []uint8 {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return []uint8{OP_GZIP}
	case ".bz2", ".bzip2":
		return []uint8{OP_BZIP2}
	default:
		return []uint8{}
	}
}

// Resolve turns operation IDs into implementations. key is used for OP_XOR.
func Resolve(ids []uint8, key []byte) ([]Operation, error) {
	ops := make([]Operation, 0, len(ids))
	for _, id := range ids {
		if id == OP_XOR {
			op, err := NewXOROperation(key)
			if err != nil {
				return nil, fmt.Errorf("operation %s: %w", GetName(id), err)
			}
			ops = append(ops, op)
			continue
		}

		op, err := Get(id)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", id, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// OperationsToString converts an operation chain to a human-readable string.
func OperationsToString(ids []uint8) string {
	if len(ids) == 0 {
		return "raw"
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, strings.ToLower(GetName(id)))
	}
	return strings.Join(names, "|")
}

// StringToOperations parses a pipe-separated chain such as "xor|hex".
func StringToOperations(opString string) ([]uint8, error) {
	opString = strings.TrimSpace(opString)
	if opString == "" || strings.EqualFold(opString, "raw") {
		return []uint8{}, nil
	}

	var ids []uint8
	for _, part := range strings.Split(opString, "|") {
		part = strings.TrimSpace(strings.ToUpper(part))
		if part == "" {
			continue
		}

		id, ok := namedOperations[part]
		if !ok {
			return nil, fmt.Errorf("unsupported operation: %s", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var namedOperations = map[string]uint8{
	"HEX":   OP_HEX,
	"XOR":   OP_XOR,
	"GZIP":  OP_GZIP,
	"BZIP2": OP_BZIP2,
}

// ApplyChain encodes data with each operation in order
func ApplyChain(data []byte, ops []Operation) ([]byte, error) {
	current := data

	for _, op := range ops {
		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}
		current = result
	}

	return current, nil
}

// ReverseChain decodes data, undoing the operations in reverse order
func ReverseChain(data []byte, ops []Operation) ([]byte, error) {
	current := data

	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if !op.CanReverse() {
			return nil, fmt.Errorf("operation %s is not reversible", op.Name())
		}

		result, err := op.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}
		current = result
	}

	return current, nil
}
