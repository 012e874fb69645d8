package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileReader_Stdin(t *testing.T) {
	fr := &FileReader[payload]{Stdin: strings.NewReader(`{"name":"a","count":2}`)}

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)
}

func TestFileReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"b"}`), 0o644))

	fr := &FileReader[payload]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
}

func TestFileReader_BadJSON(t *testing.T) {
	fr := &FileReader[payload]{Stdin: strings.NewReader(`{`)}
	_, err := fr.Read()
	assert.ErrorContains(t, err, "decode JSON")
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, payload{Name: "c", Count: 1}))
	assert.JSONEq(t, `{"name":"c","count":1}`, out.String())
	assert.Empty(t, errOut.String())

	err := WriteWith(&out, &errOut, make(chan int))
	assert.Error(t, err)
	assert.Contains(t, errOut.String(), "json_error")
}

func TestMarshalError(t *testing.T) {
	assert.JSONEq(t, `{"message":"boom","data":{"line":3}}`, MarshalError("boom", map[string]any{"line": 3}))
}
