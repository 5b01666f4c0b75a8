package operations

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
)

// HexOperation implements the hex text encoding used for encrypted responses
type HexOperation struct {
	BaseOperation
}

// NewHexOperation creates a new HEX operation
func NewHexOperation() *HexOperation {
	return &HexOperation{
		BaseOperation: BaseOperation{
			OpID:   OP_HEX,
			OpName: "HEX",
		},
	}
}

// Apply hex-encodes data
func (o *HexOperation) Apply(input []byte) ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(input)))
	hex.Encode(out, input)
	return out, nil
}

// ApplyStream hex-encodes a stream
func (o *HexOperation) ApplyStream(input io.Reader, output io.Writer) error {
	if _, err := io.Copy(hex.NewEncoder(output), input); err != nil {
		return fmt.Errorf("encoding hex stream: %w", err)
	}
	return nil
}

// Reverse decodes hex text. ASCII whitespace anywhere in the input is
// ignored, devices sometimes terminate the body with a newline.
func (o *HexOperation) Reverse(input []byte) ([]byte, error) {
	compact := stripSpace(input)
	out := make([]byte, hex.DecodedLen(len(compact)))
	if _, err := hex.Decode(out, compact); err != nil {
		return nil, fmt.Errorf("decoding hex: %w", err)
	}
	return out, nil
}

// ReverseStream decodes a hex text stream
func (o *HexOperation) ReverseStream(input io.Reader, output io.Writer) error {
	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("reading hex stream: %w", err)
	}
	decoded, err := o.Reverse(data)
	if err != nil {
		return err
	}
	_, err = output.Write(decoded)
	return err
}

func stripSpace(input []byte) []byte {
	if bytes.IndexAny(input, " \t\r\n\v\f") < 0 {
		return input
	}
	return bytes.Join(bytes.Fields(input), nil)
}
