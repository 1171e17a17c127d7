package chaumpedersen

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davxy/w3f-bls/pkg/group"
	"github.com/davxy/w3f-bls/pkg/group/suite"
)

// enginesUnderTest returns one instance of every registered engine.
func enginesUnderTest(t *testing.T) []group.Engine {
	t.Helper()
	engines := suite.All()
	require.NotEmpty(t, engines)
	return engines
}

type fixture struct {
	scheme *Scheme
	sk     *SecretKey
	pk     *PublicKey
	msg    []byte
	sig    *Signature
	proof  *Proof
}

func newFixture(t *testing.T, engine group.Engine, msg string) *fixture {
	t.Helper()

	scheme, err := NewScheme(engine)
	require.NoError(t, err)
	sk, err := GenerateSecretKey(engine, rand.Reader)
	require.NoError(t, err)
	sig, err := sk.SignMessage([]byte(msg))
	require.NoError(t, err)
	proof, err := scheme.GenerateProof(sk, []byte(msg), sig)
	require.NoError(t, err)

	return &fixture{
		scheme: scheme,
		sk:     sk,
		pk:     sk.PublicKey(),
		msg:    []byte(msg),
		sig:    sig,
		proof:  proof,
	}
}

func (f *fixture) verify(pk *PublicKey, msg []byte, sig *Signature, proof *Proof) bool {
	return f.scheme.VerifyProof(pk, msg, sig, proof)
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
