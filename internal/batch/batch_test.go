package batch

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group/bls12381"
	"github.com/davxy/w3f-bls/pkg/parser"
)

func signedRecords(t *testing.T, scheme *chaumpedersen.Scheme, n int) []*parser.Record {
	t.Helper()
	sk, err := chaumpedersen.GenerateSecretKey(scheme.Engine(), rand.Reader)
	require.NoError(t, err)

	records := make([]*parser.Record, 0, n)
	for i := 0; i < n; i++ {
		msg := []byte(fmt.Sprintf("message %d", i))
		bundle, err := scheme.Sign(sk, msg)
		require.NoError(t, err)
		records = append(records, &parser.Record{
			Index:     i,
			PublicKey: sk.PublicKey().Bytes(),
			Message:   msg,
			Signature: bundle.Signature.Bytes(),
			Challenge: bundle.Proof.Challenge.Bytes(),
			Response:  bundle.Proof.Response.Bytes(),
		})
	}
	return records
}

func TestVerify(t *testing.T) {
	scheme, err := chaumpedersen.NewScheme(bls12381.NewG1Engine())
	require.NoError(t, err)
	records := signedRecords(t, scheme, 8)

	records[2].Message = []byte("tampered")
	records[5].PublicKey = records[5].PublicKey[1:]

	results, err := Verify(context.Background(), scheme, records, 3)
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		switch i {
		case 2, 5:
			// a tampered proof and a bad encoding are indistinguishable
			assert.Equal(t, Result{Index: i}, r)
		default:
			assert.True(t, r.Valid, "record %d", i)
		}
	}

	valid, rejected := Summary(results)
	assert.Equal(t, 6, valid)
	assert.Equal(t, 2, rejected)
}

func TestVerifyCancelled(t *testing.T) {
	scheme, err := chaumpedersen.NewScheme(bls12381.NewG1Engine())
	require.NoError(t, err)
	records := signedRecords(t, scheme, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Verify(ctx, scheme, records, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyEmpty(t *testing.T) {
	scheme, err := chaumpedersen.NewScheme(bls12381.NewG1Engine())
	require.NoError(t, err)
	results, err := Verify(context.Background(), scheme, nil, 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}
