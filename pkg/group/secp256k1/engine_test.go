package secp256k1

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	e := NewEngine()
	assert.Equal(t,
		"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		hex.EncodeToString(e.Generator().Bytes()))
}

func TestParsePointRejectsUncompressed(t *testing.T) {
	e := NewEngine()
	_, err := e.ParsePoint(make([]byte, 65))
	assert.Error(t, err)

	bad, err := hex.DecodeString("0500000000000000000000000000000000000000000000000000000000000000ff")
	require.NoError(t, err)
	_, err = e.ParsePoint(bad)
	assert.Error(t, err)
}

func TestHashToPointIsEvenCompressed(t *testing.T) {
	e := NewEngine()
	p, err := e.HashToPoint([]byte("message"))
	require.NoError(t, err)
	b := p.Bytes()
	require.Len(t, b, 33)
	assert.Equal(t, byte(0x02), b[0])

	again, err := e.HashToPoint([]byte("message"))
	require.NoError(t, err)
	assert.True(t, p.Equal(again))

	other, err := e.HashToPoint([]byte("other message"))
	require.NoError(t, err)
	assert.False(t, p.Equal(other))
}
