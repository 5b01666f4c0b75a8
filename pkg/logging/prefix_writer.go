package logging

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter prefixes every complete line written to it. Partial lines are
// held until their newline arrives. It is safe for concurrent use.
type PrefixWriter struct {
	prefix []byte
	writer io.Writer

	mu     sync.Mutex
	buffer bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.buffer.Write(p)
	for {
		i := bytes.IndexByte(pw.buffer.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := make([]byte, 0, len(pw.prefix)+i+1)
		line = append(line, pw.prefix...)
		line = append(line, pw.buffer.Next(i+1)...)
		if _, err := pw.writer.Write(line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush writes out a trailing partial line, if any.
func (pw *PrefixWriter) Flush() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.buffer.Len() == 0 {
		return nil
	}
	line := append(append([]byte{}, pw.prefix...), pw.buffer.Bytes()...)
	pw.buffer.Reset()
	_, err := pw.writer.Write(line)
	return err
}
