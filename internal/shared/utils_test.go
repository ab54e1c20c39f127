package shared

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	a, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	_, err = hex.DecodeString(a)
	require.NoError(t, err)

	b, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	assert.Equal(t, make([]byte, 6), b)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestMakeRandHexString_RejectsNonPositive(t *testing.T) {
	_, err := MakeRandHexString(0)
	assert.Error(t, err)
}
