package view

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "Es Teh", truncate("Es Teh", 20))

	got := truncate("Spésial Ayam Bakar Édisi Mérah", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 10, utf8.RuneCountInString(got))
	assert.Equal(t, "Spésial A…", got)
}
