package operations

import (
	"fmt"
	"io"
	"sync"
)

// Operation identifiers. A chain lists them in encoding order.
const (
	// No operation - raw bytes
	OP_NONE = 0x00

	// Wire encodings (0x01-0x0F)
	OP_HEX = 0x01 // Hex text, two characters per byte
	OP_XOR = 0x02 // Repeating-key XOR, needs a key

	// Compression of captured responses (0x10-0x2F)
	OP_GZIP  = 0x10 // GZIP compression
	OP_BZIP2 = 0x13 // BZIP2 compression
)

// Operation represents a single reversible transformation of a payload
type Operation interface {
	// ID returns the operation identifier (e.g., OP_HEX)
	ID() uint8

	// Name returns the human-readable name
	Name() string

	// Apply encodes input data
	Apply(input []byte) ([]byte, error)

	// ApplyStream encodes a stream
	ApplyStream(input io.Reader, output io.Writer) error

	// Reverse decodes input data
	Reverse(input []byte) ([]byte, error)

	// ReverseStream decodes a stream
	ReverseStream(input io.Reader, output io.Writer) error

	// CanReverse returns true if the operation is reversible
	CanReverse() bool
}

// BaseOperation provides common functionality for operations
type BaseOperation struct {
	OpID   uint8
	OpName string
}

func (o *BaseOperation) ID() uint8 {
	return o.OpID
}

func (o *BaseOperation) Name() string {
	return o.OpName
}

func (o *BaseOperation) CanReverse() bool {
	return true
}

var (
	registryMu sync.RWMutex
	registry   = make(map[uint8]Operation)
)

// Register registers a keyless operation implementation
func Register(op Operation) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[op.ID()] = op
}

// Get retrieves a registered operation by ID
func Get(id uint8) (Operation, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	op, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown operation: 0x%02x", id)
	}
	return op, nil
}

// GetName returns the name of an operation by ID
func GetName(id uint8) string {
	switch id {
	case OP_NONE:
		return "NONE"
	case OP_HEX:
		return "HEX"
	case OP_XOR:
		return "XOR"
	case OP_GZIP:
		return "GZIP"
	case OP_BZIP2:
		return "BZIP2"
	default:
		return fmt.Sprintf("UNKNOWN_%02x", id)
	}
}

func init() {
	Register(NewHexOperation())
}
