package chaumpedersen

import (
	"github.com/davxy/w3f-bls/pkg/group"
)

// challenge binds M, P, S, A and B, in that order.
func (s *Scheme) challenge(m, pub, sig group.Point, cm commitments) group.Scalar {
	return s.hashPoints(m, pub, sig, cm.a, cm.b)
}

func (s *Scheme) hashPoints(points ...group.Point) group.Scalar {
	h := s.hash.New()
	for _, p := range points {
		h.Write(p.Bytes())
	}
	digest := h.Sum(nil)
	defer group.WipeBytes(digest)
	return s.engine.ReduceScalar(digest)
}
