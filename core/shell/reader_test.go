package shell

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedReader(t *testing.T) {
	out := &bytes.Buffer{}
	reader := NewBufferedReader(strings.NewReader("ls -l\r\n\necho hi\nlast"), out)
	defer reader.Close()

	for _, want := range []string{"ls -l", "", "echo hi", "last"} {
		line, err := reader.ReadLine("> ")
		require.Nil(t, err)
		assert.Equal(t, want, line)
	}

	_, err := reader.ReadLine("> ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "> > > > > ", out.String())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestBufferedReader_error(t *testing.T) {
	reader := NewBufferedReader(failingReader{}, io.Discard)

	_, err := reader.ReadLine("")
	assert.EqualError(t, err, "device gone")
}
