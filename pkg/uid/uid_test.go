package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGameID(t *testing.T) {
	a, b := GenerateGameID(), GenerateGameID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestGenerateProfileID(t *testing.T) {
	id, err := GenerateProfileID()
	require.NoError(t, err)
	assert.Len(t, id, 64)
}
