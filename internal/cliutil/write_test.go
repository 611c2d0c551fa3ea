package cliutil

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/restspec/aggregator"
)

func TestWritef(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"one arg", "Hello, %s!", []any{"World"}, "Hello, World!"},
		{"no args", "Simple message", nil, "Simple message"},
		{"multiple args", "%s: %d items, %v active", []any{"Status", 42, true}, "Status: 42 items, true active"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Writef(&buf, tt.format, tt.args...)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

// errorWriter is a writer that always returns an error
type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() {
		Writef(errorWriter{}, "ignored %d", 1)
	})
}

func TestWriteWarnings(t *testing.T) {
	var buf bytes.Buffer
	WriteWarnings(&buf, nil)
	assert.Empty(t, buf.String())

	w := aggregator.NewMissingOperationBodyWarning("PUT /products/{id}", "PUT")
	WriteWarnings(&buf, []*aggregator.Warning{w})
	assert.Equal(t, "Warnings:\n  - "+w.String()+"\n", buf.String())
}

func TestWriteErrors(t *testing.T) {
	a, b, c := errors.New("a"), errors.New("b"), errors.New("c")
	var buf bytes.Buffer
	n := WriteErrors(&buf, fmt.Errorf("generator: %w", errors.Join(a, errors.Join(b, c))))
	assert.Equal(t, 3, n)
	assert.Equal(t, "  - a\n  - b\n  - c\n", buf.String())

	buf.Reset()
	assert.Equal(t, 1, WriteErrors(&buf, a))
	assert.Equal(t, 0, WriteErrors(&buf, nil))
}
