package witnessaudit

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davxy/w3f-bls/internal/toygroup"
	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
	"github.com/davxy/w3f-bls/pkg/group/bls12381"
	"github.com/davxy/w3f-bls/pkg/group/ed25519"
	"github.com/davxy/w3f-bls/pkg/group/secp256k1"
)

func auditEngines() []group.Engine {
	return []group.Engine{bls12381.NewG1Engine(), secp256k1.NewEngine(), ed25519.NewEngine()}
}

func TestRecoverSecret(t *testing.T) {
	cases := []struct {
		name string
		a, b int64
	}{
		{"same_witness", 1, 0},
		{"counter", 1, 1},
		{"affine", 3, 17},
		{"negative", -2, -5},
	}
	for _, e := range auditEngines() {
		e := e
		t.Run(e.Name(), func(t *testing.T) {
			f := newFlawedProver(t, e)
			for _, tc := range cases {
				k1 := f.randomWitness()
				t1 := f.prove("first "+tc.name, nil, k1)
				t2 := f.prove("second "+tc.name, nil, f.related(k1, tc.a, tc.b))

				x, err := RecoverSecret(e, t1.Proof, t2.Proof, big.NewInt(tc.a), big.NewInt(tc.b))
				require.NoError(t, err, tc.name)
				assert.Equal(t, 0, f.secret().Cmp(x), tc.name)
				assert.True(t, VerifyRecoveredSecret(e, x, t1.PublicKey), tc.name)
			}
		})
	}
}

func TestRecoverSecretDegenerate(t *testing.T) {
	e := toygroup.New()
	p1 := &chaumpedersen.Proof{Challenge: toygroup.NewScalar(5), Response: toygroup.NewScalar(1)}
	p2 := &chaumpedersen.Proof{Challenge: toygroup.NewScalar(5), Response: toygroup.NewScalar(2)}

	_, err := RecoverSecret(e, p1, p2, big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, ErrDegenerateRelationship)
}

func TestRecoverSecretToy(t *testing.T) {
	// x = 3; k1 = 7 and k2 = 2·7 + 1 = 15 with challenges 11 and 4.
	e := toygroup.New()
	p1 := &chaumpedersen.Proof{Challenge: toygroup.NewScalar(11), Response: toygroup.NewScalar(toygroup.Q + 7 - 33)}
	p2 := &chaumpedersen.Proof{Challenge: toygroup.NewScalar(4), Response: toygroup.NewScalar(15 - 12)}

	x, err := RecoverSecret(e, p1, p2, big.NewInt(2), big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), x.Int64())
}

func TestVerifyRecoveredSecretRejects(t *testing.T) {
	e := bls12381.NewG1Engine()
	f := newFlawedProver(t, e)
	pk := f.sk.PublicKey()

	assert.False(t, VerifyRecoveredSecret(e, nil, pk))
	assert.False(t, VerifyRecoveredSecret(e, big.NewInt(0), pk))
	assert.False(t, VerifyRecoveredSecret(e, e.Order(), pk))
	assert.False(t, VerifyRecoveredSecret(e, new(big.Int).Add(f.secret(), big.NewInt(1)), pk))
	assert.True(t, VerifyRecoveredSecret(e, f.secret(), pk))
}

func TestCommitmentEqualsWitnessTimesGenerator(t *testing.T) {
	e := secp256k1.NewEngine()
	f := newFlawedProver(t, e)
	k := f.randomWitness()
	tr := f.prove("commitment", nil, k)
	assert.True(t, tr.Commitment(e).Equal(e.ScalarBaseMult(k)))
}
