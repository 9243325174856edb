package pkg

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	first := GenerateSessionID()
	second := GenerateSessionID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGeneratePlayerID(t *testing.T) {
	id := GeneratePlayerID()

	assert.Regexp(t, `^guest-[0-9a-f]{8}$`, id)
}
