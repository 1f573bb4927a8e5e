package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_Embedded(t *testing.T) {
	dict := newDictionary(&Config{})

	assert.Equal(t, wordLength, dict.WordLength())

	assert.True(t, dict.IsValid("CRANE"))
	assert.True(t, dict.IsValid("crane"))
	assert.True(t, dict.IsValid(" crane "))
	assert.False(t, dict.IsValid("ZZZZZ"))
	assert.False(t, dict.IsValid("CRANES"))
	assert.False(t, dict.IsValid(""))

	assert.True(t, dict.IsSolution("about"))
	assert.True(t, dict.IsSolution("ERASE"))
}

func TestDictionary_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.txt")
	require.NoError(t, os.WriteFile(path, []byte("zesty\nvivid\n"), 0o644))

	dict := newDictionary(&Config{answersFile: path})

	assert.True(t, dict.IsSolution("ZESTY"))
	assert.True(t, dict.IsSolution("vivid"))
	assert.False(t, dict.IsSolution("ABOUT"))
}

func TestDictionary_UnreadableFileFallsBackToEmbedded(t *testing.T) {
	dict := newDictionary(&Config{answersFile: filepath.Join(t.TempDir(), "missing.txt")})

	assert.True(t, dict.IsSolution("ABOUT"))
}

func TestDictionary_EmptySolutionsFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.txt")
	require.NoError(t, os.WriteFile(path, []byte("xy\n123ab\n"), 0o644))

	dict := newDictionary(&Config{answersFile: path})

	for _, w := range fallbackAnswers {
		assert.True(t, dict.IsSolution(w), w)
	}
}

func TestParseWords(t *testing.T) {
	words := parseWords("crane\nhi\ntoolong\n CRATE \n123ab\n\ncr-ne\n")

	assert.Equal(t, []string{"CRANE", "CRATE"}, words)
}

func TestNormalizeWord(t *testing.T) {
	assert.Equal(t, "CRANE", normalizeWord("  crane\n"))
	assert.Equal(t, "", normalizeWord("   "))
}
