// Package compress registers the compression operations used for response
// capture files.
package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/provide-io/candy/go/candy/pkg/candy/operations"
)

// MaxDecodedSize bounds how much a capture may expand to when decompressed.
const MaxDecodedSize = 16 * 1024 * 1024

func init() {
	operations.Register(NewGzipOperation())
	operations.Register(NewBzip2Operation())
}

// CodecOperation adapts a streaming compression format to an Operation
type CodecOperation struct {
	operations.BaseOperation
	newWriter func(w io.Writer) (io.WriteCloser, error)
	newReader func(r io.Reader) (io.ReadCloser, error)
}

// NewGzipOperation creates a new GZIP operation
func NewGzipOperation() *CodecOperation {
	return &CodecOperation{
		BaseOperation: operations.BaseOperation{OpID: operations.OP_GZIP, OpName: "GZIP"},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, gzip.BestCompression)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}
}

// NewBzip2Operation creates a new BZIP2 operation
func NewBzip2Operation() *CodecOperation {
	return &CodecOperation{
		BaseOperation: operations.BaseOperation{OpID: operations.OP_BZIP2, OpName: "BZIP2"},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return bzip2.NewReader(r, &bzip2.ReaderConfig{})
		},
	}
}

// Apply compresses data
func (o *CodecOperation) Apply(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := o.ApplyStream(bytes.NewReader(input), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ApplyStream compresses a stream
func (o *CodecOperation) ApplyStream(input io.Reader, output io.Writer) error {
	w, err := o.newWriter(output)
	if err != nil {
		return fmt.Errorf("creating %s writer: %w", o.Name(), err)
	}

	if _, err := io.Copy(w, input); err != nil {
		w.Close()
		return fmt.Errorf("compressing %s stream: %w", o.Name(), err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s writer: %w", o.Name(), err)
	}
	return nil
}

// Reverse decompresses data
func (o *CodecOperation) Reverse(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := o.ReverseStream(bytes.NewReader(input), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReverseStream decompresses a stream, failing past MaxDecodedSize
func (o *CodecOperation) ReverseStream(input io.Reader, output io.Writer) error {
	r, err := o.newReader(input)
	if err != nil {
		return fmt.Errorf("creating %s reader: %w", o.Name(), err)
	}
	defer r.Close()

	n, err := io.Copy(output, io.LimitReader(r, MaxDecodedSize+1))
	if err != nil {
		return fmt.Errorf("decompressing %s stream: %w", o.Name(), err)
	}
	if n > MaxDecodedSize {
		return fmt.Errorf("%s stream exceeds %d bytes", o.Name(), MaxDecodedSize)
	}
	return nil
}
