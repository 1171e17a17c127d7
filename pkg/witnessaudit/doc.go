// Package witnessaudit checks a set of Chaum-Pedersen proofs for related witnesses.
//
// Every proof satisfies s = k - c·x. Two proofs by the same key whose witnesses obey
// k2 = a·k1 + b therefore reveal the secret:
//
//	x = (s2 - a·s1 - b) / (a·c1 - c2) mod r
//
// The package recomputes each proof's first commitment A = s·G + c·P = k·G, so candidate
// relationships are tested on points (A2 == a·A1 + b·G) before any scalar is solved for.
// A correct prover derives k from the secret and the message and never trips this audit;
// a prover that reuses witnesses, counts them, or accepts foreign signatures for a message
// it has already proven does.
//
// WARNING: for auditing your own provers and test vectors only.
//
// Basic Usage:
//
//	auditor := witnessaudit.NewAuditor(bls12381.NewG2Engine())
//	result, err := auditor.Audit(ctx, "proofs.json", "public_key_hex")
//	// Or with transcripts already in memory:
//	// result, err := auditor.AuditProofs(ctx, transcripts, pk)
//
// Customizing the search:
//
//	strategy := witnessaudit.NewSmartSearchStrategy().
//		WithRangeConfig(witnessaudit.RangeConfig{
//			ARange:     [2]int{1, 4},
//			BRange:     [2]int{-5000, 5000},
//			NumWorkers: 8,
//		})
//	auditor = witnessaudit.NewAuditor(engine).WithStrategy(strategy)
package witnessaudit
