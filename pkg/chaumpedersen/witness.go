package chaumpedersen

import (
	"github.com/davxy/w3f-bls/pkg/group"
)

// witness holds the prover's nonce k for the duration of one proof.
type witness struct {
	k group.Scalar
}

// deriveWitness computes k = H(secret_bytes || msg) mod r, reading the digest big-endian.
// The exported secret bytes and the digest are overwritten before returning.
func (s *Scheme) deriveWitness(sk *SecretKey, msg []byte) *witness {
	xb := sk.x.Bytes()
	defer group.WipeBytes(xb)

	h := s.hash.New()
	h.Write(xb)
	h.Write(msg)
	digest := h.Sum(nil)
	defer group.WipeBytes(digest)
	h.Reset()

	return &witness{k: s.engine.ReduceScalar(digest)}
}

func (w *witness) wipe() {
	w.k.Zeroize()
}
