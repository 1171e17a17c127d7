package toygroup

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davxy/w3f-bls/pkg/group"
)

func TestPointsAreDiscreteLogs(t *testing.T) {
	e := New()
	k := NewScalar(7)
	assert.Equal(t, uint64(7), e.ScalarBaseMult(k).(*Point).Value())
	assert.Equal(t, uint64(35), e.ScalarMult(NewPoint(5), k).(*Point).Value())
	assert.Equal(t, uint64(12), e.Add(NewPoint(5), NewPoint(7)).(*Point).Value())
}

func TestScalarArithmeticWraps(t *testing.T) {
	e := New()
	assert.Equal(t, uint64(Q-1), e.ScalarSub(NewScalar(0), NewScalar(1)).(*Scalar).Value())
	assert.Equal(t, uint64(0), e.ScalarAdd(NewScalar(Q-1), NewScalar(1)).(*Scalar).Value())
	assert.Equal(t, uint64(1), e.SetBigInt(big.NewInt(Q+1)).(*Scalar).Value())
}

func TestPinnedMessagePoint(t *testing.T) {
	e := New().WithMessagePoint("pinned", 5)
	p, err := e.HashToPoint([]byte("pinned"))
	require.NoError(t, err)
	assert.True(t, p.Equal(NewPoint(5)))

	q, err := e.HashToPoint([]byte("free"))
	require.NoError(t, err)
	assert.NotZero(t, q.(*Point).Value())
}

func TestParseRejectsIdentityAndUnreduced(t *testing.T) {
	e := New()
	_, err := e.ParsePoint([]byte{0, 0})
	assert.ErrorIs(t, err, group.ErrInvalidPoint)
	_, err = e.ParsePoint([]byte{0xff, 0xff})
	assert.ErrorIs(t, err, group.ErrInvalidPoint)
	_, err = e.ParseScalar([]byte{0xff, 0xf1})
	assert.ErrorIs(t, err, group.ErrInvalidScalar)

	s, err := e.ParseScalar([]byte{0, 3})
	require.NoError(t, err)
	assert.True(t, s.Equal(NewScalar(3)))
}
