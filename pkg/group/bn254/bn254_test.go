package bn254

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// (1, 2) compressed, with the "smallest y" flag set.
var g1GeneratorHex = "80" + strings.Repeat("00", 30) + "01"

func TestG1Generator(t *testing.T) {
	e := NewG1Engine()
	assert.Equal(t, g1GeneratorHex, hex.EncodeToString(e.Generator().Bytes()))
	assert.Equal(t, 32, e.PointSize())
	assert.Equal(t, 32, e.ScalarSize())
}

func TestG2Sizes(t *testing.T) {
	e := NewG2Engine()
	assert.Equal(t, 64, e.PointSize())
	assert.Len(t, e.Generator().Bytes(), 64)
}

func TestHashToPointDependsOnGroup(t *testing.T) {
	m1, err := NewG1Engine().HashToPoint([]byte("msg"))
	require.NoError(t, err)
	m2, err := NewG2Engine().HashToPoint([]byte("msg"))
	require.NoError(t, err)
	assert.NotEqual(t, len(m1.Bytes()), len(m2.Bytes()))

	again, err := NewG1Engine().HashToPoint([]byte("msg"))
	require.NoError(t, err)
	assert.True(t, m1.Equal(again))
}
