package shell

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"vcmd/internal/shell/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ commands.PasswordReader = (*TermPasswordReader)(nil)

func TestTermPasswordReader_PipedInput(t *testing.T) {
	var out bytes.Buffer
	reader := NewTermPasswordReaderWithIO(strings.NewReader("first\r\nsecond"), &out)

	pw, err := reader.ReadPassword("Password for alice: ")
	require.NoError(t, err)
	assert.Equal(t, "first", pw)
	assert.Equal(t, "Password for alice: ", out.String())

	pw, err = reader.ReadPassword("Again: ")
	require.NoError(t, err)
	assert.Equal(t, "second", pw, "last line without newline is accepted")

	_, err = reader.ReadPassword("More: ")
	assert.ErrorIs(t, err, io.EOF)
}
