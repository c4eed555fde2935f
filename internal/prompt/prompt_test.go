package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  Ana \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLine_Sequence(t *testing.T) {
	r := rdr("one\r\ntwo\n")
	first, err := ReadLine(r)
	require.NoError(t, err)
	second, err := ReadLine(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, []string{first, second})
}

func TestGetSecret(t *testing.T) {
	restore := SetReadPassword(func(int) ([]byte, error) { return []byte("1234"), nil })
	defer restore()

	var out bytes.Buffer
	got, err := GetSecret("Access PIN", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("1234"), got)
	assert.Equal(t, "Access PIN: \n", out.String())
}

func TestGetSecret_Error(t *testing.T) {
	restore := SetReadPassword(func(int) ([]byte, error) { return nil, errors.New("boom") })
	defer restore()

	var out bytes.Buffer
	_, err := GetSecret("Access PIN", &out)
	assert.Error(t, err)
}
