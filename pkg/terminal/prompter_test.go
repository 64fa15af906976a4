package terminal

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePrompter(t *testing.T) {
	t.Run("ReadsLines", func(t *testing.T) {
		var out bytes.Buffer
		p := NewLinePrompter(strings.NewReader("y\r\n  3 \nlast"), &out)

		line, err := p.Ask("Continue? [y/N]:")
		require.NoError(t, err)
		assert.Equal(t, "y", line)
		assert.Equal(t, "Continue? [y/N]: ", out.String())

		line, err = p.Ask("")
		require.NoError(t, err)
		assert.Equal(t, "  3 ", line)

		line, err = p.Ask("")
		require.NoError(t, err)
		assert.Equal(t, "last", line)

		_, err = p.Ask("")
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("EmptyLine", func(t *testing.T) {
		p := NewLinePrompter(strings.NewReader("\n"), io.Discard)
		line, err := p.Ask("?")
		require.NoError(t, err)
		assert.Equal(t, "", line)
	})

	t.Run("WriteFailure", func(t *testing.T) {
		p := NewLinePrompter(strings.NewReader("y\n"), failingWriter{})
		_, err := p.Ask("?")
		assert.Error(t, err)
	})
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed")
}

func TestScriptedPrompter(t *testing.T) {
	p := NewScriptedPrompter("1", "a")

	line, err := p.Ask("first")
	require.NoError(t, err)
	assert.Equal(t, "1", line)

	line, err = p.Ask("second")
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	_, err = p.Ask("third")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"first", "second", "third"}, p.Prompts)
}
