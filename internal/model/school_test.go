package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSubdomain(t *testing.T) {
	got, err := NormalizeSubdomain("  GreenValley ")
	require.NoError(t, err)
	assert.Equal(t, "greenvalley", got)

	_, err = NormalizeSubdomain("green valley")
	assert.ErrorIs(t, err, ErrInvalidSubdomain)

	_, err = NormalizeSubdomain("   ")
	assert.ErrorIs(t, err, ErrInvalidSubdomain)
}
