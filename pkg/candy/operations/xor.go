package operations

import (
	"fmt"
	"io"

	"github.com/provide-io/candy/go/candy/pkg/candy/crypto"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
)

// XOROperation applies a device's repeating XOR key. It is not registered
// since every device carries its own key.
type XOROperation struct {
	BaseOperation
	key []byte
}

// NewXOROperation creates an XOR operation bound to key
func NewXOROperation(key []byte) (*XOROperation, error) {
	if len(key) == 0 {
		return nil, candyerrors.ErrInvalidKey
	}
	return &XOROperation{
		BaseOperation: BaseOperation{
			OpID:   OP_XOR,
			OpName: "XOR",
		},
		key: append([]byte(nil), key...),
	}, nil
}

// Apply encrypts data
func (o *XOROperation) Apply(input []byte) ([]byte, error) {
	return crypto.Transform(o.key, input)
}

// Reverse decrypts data. XOR is its own inverse.
func (o *XOROperation) Reverse(input []byte) ([]byte, error) {
	return crypto.Transform(o.key, input)
}

// ApplyStream encrypts a stream, keeping the key phase across reads
func (o *XOROperation) ApplyStream(input io.Reader, output io.Writer) error {
	buf := make([]byte, 4096)
	offset := 0
	for {
		n, err := input.Read(buf)
		if n > 0 {
			for i := 0; i < n; i++ {
				buf[i] ^= o.key[(offset+i)%len(o.key)]
			}
			offset += n
			if _, wErr := output.Write(buf[:n]); wErr != nil {
				return fmt.Errorf("writing xor stream: %w", wErr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading xor stream: %w", err)
		}
	}
}

// ReverseStream decrypts a stream
func (o *XOROperation) ReverseStream(input io.Reader, output io.Writer) error {
	return o.ApplyStream(input, output)
}
