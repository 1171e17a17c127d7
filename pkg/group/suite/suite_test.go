package suite

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davxy/w3f-bls/internal/toygroup"
	"github.com/davxy/w3f-bls/pkg/group"
)

func randomScalar(t *testing.T, e group.Engine) group.Scalar {
	t.Helper()
	buf := make([]byte, e.ScalarSize()+16)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return e.ReduceScalar(buf)
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		e, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, e.Name())
	}

	_, err := Lookup("p256")
	assert.Error(t, err)

	_, err = Lookup(Default)
	assert.NoError(t, err)
}

func TestScalarArithmetic(t *testing.T) {
	for _, e := range All() {
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			a, b := randomScalar(t, e), randomScalar(t, e)
			order := e.Order()

			sum := new(big.Int).Add(e.BigInt(a), e.BigInt(b))
			assert.Equal(t, 0, sum.Mod(sum, order).Cmp(e.BigInt(e.ScalarAdd(a, b))))

			diff := new(big.Int).Sub(e.BigInt(a), e.BigInt(b))
			assert.Equal(t, 0, diff.Mod(diff, order).Cmp(e.BigInt(e.ScalarSub(a, b))))

			prod := new(big.Int).Mul(e.BigInt(a), e.BigInt(b))
			assert.Equal(t, 0, prod.Mod(prod, order).Cmp(e.BigInt(e.ScalarMul(a, b))))

			back := e.SetBigInt(e.BigInt(a))
			assert.True(t, back.Equal(a))

			neg := e.SetBigInt(big.NewInt(-1))
			assert.Equal(t, 0, new(big.Int).Sub(order, big.NewInt(1)).Cmp(e.BigInt(neg)))
		})
	}
}

func TestScalarEncoding(t *testing.T) {
	for _, e := range All() {
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			a := randomScalar(t, e)
			enc := a.Bytes()
			require.Len(t, enc, e.ScalarSize())

			parsed, err := e.ParseScalar(enc)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(a))

			_, err = e.ParseScalar(enc[1:])
			assert.ErrorIs(t, err, group.ErrInvalidScalar)

			a.Zeroize()
			assert.Equal(t, 0, e.BigInt(a).Sign())
		})
	}
}

func TestReduceScalar(t *testing.T) {
	for _, e := range All() {
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			over := new(big.Int).Add(e.Order(), big.NewInt(5))
			got := e.ReduceScalar(over.Bytes())
			assert.Equal(t, int64(5), e.BigInt(got).Int64())

			// big-endian regardless of the engine's own scalar encoding
			got = e.ReduceScalar([]byte{0x01, 0x00})
			assert.Equal(t, int64(256), e.BigInt(got).Int64())
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	for _, e := range All() {
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			a, b := randomScalar(t, e), randomScalar(t, e)
			g := e.Generator()

			assert.True(t, e.ScalarBaseMult(a).Equal(e.ScalarMult(g, a)))

			lhs := e.ScalarBaseMult(e.ScalarAdd(a, b))
			rhs := e.Add(e.ScalarBaseMult(a), e.ScalarBaseMult(b))
			assert.True(t, lhs.Equal(rhs))

			ab := e.ScalarMult(e.ScalarBaseMult(a), b)
			assert.True(t, ab.Equal(e.ScalarBaseMult(e.ScalarMul(a, b))))

			one := e.SetBigInt(big.NewInt(1))
			assert.True(t, e.ScalarBaseMult(one).Equal(g))
		})
	}
}

func TestPointEncoding(t *testing.T) {
	for _, e := range All() {
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			p := e.ScalarBaseMult(randomScalar(t, e))
			enc := p.Bytes()
			require.Len(t, enc, e.PointSize())

			parsed, err := e.ParsePoint(enc)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(p))

			_, err = e.ParsePoint(enc[:len(enc)-1])
			assert.ErrorIs(t, err, group.ErrInvalidPoint)

			identity := e.ScalarBaseMult(e.SetBigInt(big.NewInt(0)))
			_, err = e.ParsePoint(identity.Bytes())
			assert.ErrorIs(t, err, group.ErrInvalidPoint)
		})
	}
}

func TestHashToPoint(t *testing.T) {
	for _, e := range All() {
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			p1, err := e.HashToPoint([]byte("message"))
			require.NoError(t, err)
			p2, err := e.HashToPoint([]byte("message"))
			require.NoError(t, err)
			p3, err := e.HashToPoint([]byte("massage"))
			require.NoError(t, err)

			assert.True(t, p1.Equal(p2))
			assert.False(t, p1.Equal(p3))

			parsed, err := e.ParsePoint(p1.Bytes())
			require.NoError(t, err, "hashed point must be a valid group element")
			assert.True(t, parsed.Equal(p1))
		})
	}
}

func TestEnginesRejectForeignValues(t *testing.T) {
	toy := toygroup.New()
	engines := All()
	for i, e := range engines {
		neighbour := engines[(i+1)%len(engines)]
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			assert.Panics(t, func() { e.ScalarBaseMult(toygroup.NewScalar(2)) })
			assert.Panics(t, func() { e.Add(e.Generator(), toy.Generator()) })
			assert.Panics(t, func() { e.Add(e.Generator(), neighbour.Generator()) })
			assert.False(t, e.Generator().Equal(neighbour.Generator()))
		})
	}
}
