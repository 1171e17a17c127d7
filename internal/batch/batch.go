// Package batch verifies many proof records concurrently.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/parser"
)

// Result is the outcome for one record. A record that fails to decode is rejected the
// same way as one whose proof does not verify.
type Result struct {
	Index int
	Valid bool
}

// Verify checks every record with scheme using at most workers goroutines
// (0 = runtime.NumCPU()). Results are in record order. Only cancellation of ctx is
// reported as an error.
func Verify(ctx context.Context, scheme *chaumpedersen.Scheme, records []*parser.Record, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range records {
		i, rec := i, rec
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = verifyRecord(scheme, rec)
			results[i].Index = i
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func verifyRecord(scheme *chaumpedersen.Scheme, rec *parser.Record) Result {
	engine := scheme.Engine()
	pk, err := chaumpedersen.ParsePublicKey(engine, rec.PublicKey)
	if err != nil {
		return Result{}
	}
	sig, err := chaumpedersen.ParseSignature(engine, rec.Signature)
	if err != nil {
		return Result{}
	}
	proof, err := chaumpedersen.ParseProof(engine, append(append([]byte{}, rec.Challenge...), rec.Response...))
	if err != nil {
		return Result{}
	}
	return Result{Valid: scheme.VerifyProof(pk, rec.Message, sig, proof)}
}

// Summary counts valid and rejected results.
func Summary(results []Result) (valid, rejected int) {
	for _, r := range results {
		if r.Valid {
			valid++
		} else {
			rejected++
		}
	}
	return valid, rejected
}
