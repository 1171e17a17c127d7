package witnessaudit

import (
	"math/big"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
)

// Transcript is one verified proof together with the statement it proves.
type Transcript struct {
	PublicKey *chaumpedersen.PublicKey
	Message   []byte
	Signature *chaumpedersen.Signature
	Proof     *chaumpedersen.Proof

	// commitment caches A = s·G + c·P.
	commitment group.Point
}

// Commitment returns A = s·G + c·P, which equals k·G for a valid proof.
func (t *Transcript) Commitment(engine group.Engine) group.Point {
	if t.commitment == nil {
		t.commitment = engine.Add(
			engine.ScalarBaseMult(t.Proof.Response),
			engine.ScalarMult(t.PublicKey.Point(), t.Proof.Challenge),
		)
	}
	return t.commitment
}

// AffineRelationship is k2 = A·k1 + B.
type AffineRelationship struct {
	A *big.Int
	B *big.Int
}

// RecoveryResult describes a recovered secret.
type RecoveryResult struct {
	Secret         *big.Int
	Relationship   AffineRelationship
	TranscriptPair [2]int
	Verified       bool
	Pattern        string
}
