package witnessaudit

import (
	"errors"
	"math/big"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
)

var ErrDegenerateRelationship = errors.New("denominator is zero: cannot recover secret")

// RecoverSecret solves for x given two proofs whose witnesses satisfy k2 = a·k1 + b.
//
//	s1 = k1 - c1·x
//	s2 = k2 - c2·x = a·(s1 + c1·x) + b - c2·x
//	x  = (s2 - a·s1 - b) / (a·c1 - c2) mod r
func RecoverSecret(engine group.Engine, p1, p2 *chaumpedersen.Proof, a, b *big.Int) (*big.Int, error) {
	r := engine.Order()
	c1, s1 := engine.BigInt(p1.Challenge), engine.BigInt(p1.Response)
	c2, s2 := engine.BigInt(p2.Challenge), engine.BigInt(p2.Response)

	numerator := new(big.Int).Mul(a, s1)
	numerator.Sub(s2, numerator)
	numerator.Sub(numerator, b)
	numerator.Mod(numerator, r)

	denominator := new(big.Int).Mul(a, c1)
	denominator.Sub(denominator, c2)
	denominator.Mod(denominator, r)

	if denominator.Sign() == 0 {
		return nil, ErrDegenerateRelationship
	}
	inv := new(big.Int).ModInverse(denominator, r)
	if inv == nil {
		return nil, errors.New("failed to compute modular inverse")
	}

	x := numerator.Mul(numerator, inv)
	return x.Mod(x, r), nil
}

// VerifyRecoveredSecret reports whether x·G equals the public key.
func VerifyRecoveredSecret(engine group.Engine, x *big.Int, pk *chaumpedersen.PublicKey) bool {
	if x == nil || pk == nil || x.Sign() <= 0 || x.Cmp(engine.Order()) >= 0 {
		return false
	}
	k := engine.SetBigInt(x)
	defer k.Zeroize()
	return engine.ScalarBaseMult(k).Equal(pk.Point())
}

// relationHolds checks A2 == a·A1 + b·G on the recomputed commitments.
func relationHolds(engine group.Engine, t1, t2 *Transcript, a, b *big.Int) bool {
	lhs := engine.Add(
		engine.ScalarMult(t1.Commitment(engine), engine.SetBigInt(a)),
		engine.ScalarBaseMult(engine.SetBigInt(b)),
	)
	return lhs.Equal(t2.Commitment(engine))
}

// solve recovers and verifies the secret for a pair once the relationship is known to hold.
func solve(engine group.Engine, transcripts []*Transcript, i, j int, a, b *big.Int, pattern string) *RecoveryResult {
	x, err := RecoverSecret(engine, transcripts[i].Proof, transcripts[j].Proof, a, b)
	if err != nil {
		return nil
	}
	if !VerifyRecoveredSecret(engine, x, transcripts[i].PublicKey) {
		return nil
	}
	return &RecoveryResult{
		Secret:         x,
		Relationship:   AffineRelationship{A: new(big.Int).Set(a), B: new(big.Int).Set(b)},
		TranscriptPair: [2]int{i, j},
		Verified:       true,
		Pattern:        pattern,
	}
}
