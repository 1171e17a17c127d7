package witnessaudit

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
)

// flawedProver proves with caller-chosen witnesses and without checking the signature.
type flawedProver struct {
	t      *testing.T
	engine group.Engine
	scheme *chaumpedersen.Scheme
	sk     *chaumpedersen.SecretKey
}

func newFlawedProver(t *testing.T, engine group.Engine) *flawedProver {
	t.Helper()
	scheme, err := chaumpedersen.NewScheme(engine)
	require.NoError(t, err)
	sk, err := chaumpedersen.GenerateSecretKey(engine, rand.Reader)
	require.NoError(t, err)
	return &flawedProver{t: t, engine: engine, scheme: scheme, sk: sk}
}

func (f *flawedProver) randomWitness() group.Scalar {
	buf := make([]byte, f.engine.ScalarSize()+16)
	_, err := rand.Read(buf)
	require.NoError(f.t, err)
	return f.engine.ReduceScalar(buf)
}

// prove signs msg with sig (or the honest signature when nil) using witness k. The
// proof must verify, so sig must be the honest signature.
func (f *flawedProver) prove(msg string, sig *chaumpedersen.Signature, k group.Scalar) *Transcript {
	f.t.Helper()
	if sig == nil {
		var err error
		sig, err = f.sk.SignMessage([]byte(msg))
		require.NoError(f.t, err)
	}
	return f.proveWith(msg, sig, k, true)
}

// proveForeign binds a signature that is not x·M. The resulting proof is rejected by
// verifiers but its commitment A = s·G + c·P still equals k·G.
func (f *flawedProver) proveForeign(msg string, sig *chaumpedersen.Signature, k group.Scalar) *Transcript {
	f.t.Helper()
	return f.proveWith(msg, sig, k, false)
}

func (f *flawedProver) proveWith(msg string, sig *chaumpedersen.Signature, k group.Scalar, valid bool) *Transcript {
	f.t.Helper()
	e := f.engine
	m, err := e.HashToPoint([]byte(msg))
	require.NoError(f.t, err)
	pk := f.sk.PublicKey()

	h := f.scheme.Hash().New()
	for _, p := range []group.Point{m, pk.Point(), sig.Point(), e.ScalarBaseMult(k), e.ScalarMult(m, k)} {
		h.Write(p.Bytes())
	}
	c := e.ReduceScalar(h.Sum(nil))
	s := e.ScalarSub(k, e.ScalarMul(c, f.sk.Scalar()))

	proof := &chaumpedersen.Proof{Challenge: c, Response: s}
	require.Equal(f.t, valid, f.scheme.VerifyProof(pk, []byte(msg), sig, proof))
	return &Transcript{PublicKey: pk, Message: []byte(msg), Signature: sig, Proof: proof}
}

// related returns a·k + b.
func (f *flawedProver) related(k group.Scalar, a, b int64) group.Scalar {
	e := f.engine
	return e.ScalarAdd(e.ScalarMul(e.SetBigInt(big.NewInt(a)), k), e.SetBigInt(big.NewInt(b)))
}

func (f *flawedProver) secret() *big.Int {
	return f.engine.BigInt(f.sk.Scalar())
}
