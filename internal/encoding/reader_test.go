package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := `{"products":[{"name":"Soto Betawi Spésial"}]}`
	assert.Equal(t, input, decode(t, []byte(input)))
}

func TestNewUTF8Reader_StripsUTF8BOM(t *testing.T) {
	content := `{"products":[]}`
	input := append([]byte{0xEF, 0xBB, 0xBF}, content...)

	assert.Equal(t, content, decode(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	content := `{"txns":[]}`

	input := []byte{0xFF, 0xFE}
	for _, r := range content {
		input = append(input, byte(r), 0x00)
	}

	assert.Equal(t, content, decode(t, input))
}

func TestNewUTF8Reader_Windows1252Fallback(t *testing.T) {
	// "Spésial" with é as Windows-1252 0xE9, invalid as UTF-8.
	input := []byte{'S', 'p', 0xE9, 's', 'i', 'a', 'l'}
	assert.Equal(t, "Spésial", decode(t, input))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Empty(t, decode(t, nil))
}
