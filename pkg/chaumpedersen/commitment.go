package chaumpedersen

import (
	"github.com/davxy/w3f-bls/pkg/group"
)

type commitments struct {
	a, b group.Point
}

// binding is the c·P, c·S term the verifier folds into its commitments.
type binding struct {
	c        group.Scalar
	pub, sig group.Point
}

// commit returns (k·G, k·M) for the prover, or (s·G + c·P, s·M + c·S) when bind is set.
func (s *Scheme) commit(k group.Scalar, m group.Point, bind *binding) commitments {
	e := s.engine
	cm := commitments{
		a: e.ScalarBaseMult(k),
		b: e.ScalarMult(m, k),
	}
	if bind != nil {
		cm.a = e.Add(cm.a, e.ScalarMult(bind.pub, bind.c))
		cm.b = e.Add(cm.b, e.ScalarMult(bind.sig, bind.c))
	}
	return cm
}
