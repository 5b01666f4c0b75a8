package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriterLines(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	n, err := pw.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "> first\n", out.String())

	_, err = pw.Write([]byte("ond\nthird"))
	require.NoError(t, err)
	assert.Equal(t, "> first\n> second\n", out.String())

	require.NoError(t, pw.Flush())
	assert.Equal(t, "> first\n> second\n> third", out.String())
	require.NoError(t, pw.Flush())
}

func TestPrefixWriterConcurrentLinesStayWhole(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = pw.Write([]byte("0123456789\n"))
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, 1000)
	for _, line := range lines {
		assert.Equal(t, "> 0123456789", line)
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, "warn", GetLogLevel())
	assert.Equal(t, "debug", ResolveLevel("debug"))

	t.Setenv(EnvLogLevel, "trace")
	assert.Equal(t, "trace", GetLogLevel())
	assert.Equal(t, "trace", ResolveLevel(""))
}

func TestNewLoggerFormats(t *testing.T) {
	t.Setenv(EnvJSONLog, "")
	var text bytes.Buffer
	NewLogger("candy", "info", &text).Info("hello", "ip", "10.0.0.2")
	assert.True(t, strings.HasPrefix(text.String(), linePrefix), text.String())
	assert.Contains(t, text.String(), "ip=10.0.0.2")

	t.Setenv(EnvJSONLog, "1")
	var js bytes.Buffer
	NewLogger("candy", "info", &js).Info("hello", "ip", "10.0.0.2")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &entry))
	assert.Equal(t, "hello", entry["@message"])
	assert.Equal(t, "10.0.0.2", entry["ip"])

	var quiet bytes.Buffer
	NewLogger("candy", "warn", &quiet).Info("hidden")
	assert.Empty(t, quiet.String())
}
