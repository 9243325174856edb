package words

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	// Given: the embedded pack
	pack, err := Default()
	require.NoError(t, err)

	// Then: every list is populated and wordle words have five letters
	assert.NotEmpty(t, pack.Hangman)
	assert.NotEmpty(t, pack.Typerace)
	assert.NotEmpty(t, pack.Verbal)
	require.NotEmpty(t, pack.Wordle)

	for _, word := range pack.Wordle {
		assert.Len(t, word, 5, word)
	}

	assert.True(t, pack.WordleSet().Contains("APPLE"))
	assert.True(t, pack.DictionarySet().Contains("stone"))
}

func TestLoad(t *testing.T) {
	t.Run("Custom file", func(t *testing.T) {
		// Given: a pack on disk with mixed case and blanks
		path := filepath.Join(t.TempDir(), "words.yml")
		require.NoError(t, os.WriteFile(path, []byte("hangman:\n  - Gopher\n  - ' '\n"), 0o600))

		// When: loading it
		pack, err := Load(path)

		// Then: entries are normalized and missing lists stay empty
		require.NoError(t, err)
		assert.Equal(t, []string{"gopher"}, pack.Hangman)
		assert.Nil(t, pack.DictionarySet())
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.Error(t, err)
	})

	t.Run("Broken yaml", func(t *testing.T) {
		_, err := Parse([]byte("hangman: [unclosed"))
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestPick(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	_, err := Pick(rng, nil)
	require.ErrorIs(t, err, ErrEmptyList)

	word, err := Pick(rng, []string{"only"})
	require.NoError(t, err)
	assert.Equal(t, "only", word)

	picked, err := PickN(rng, []string{"a", "b"}, 15)
	require.NoError(t, err)
	assert.Len(t, picked, 15)
}
