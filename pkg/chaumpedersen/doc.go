// Package chaumpedersen implements a Chaum-Pedersen discrete-log-equality proof that binds
// a BLS signature S = x·H(m) to the public key P = x·G that produced it. The proof shows
// that log_G(P) == log_M(S) for M = H(m) without revealing x, which gives a proof of
// possession for the signing key.
//
// The proof is made non-interactive with Fiat-Shamir. The prover derives its witness
// deterministically from the secret key and the message, so proving is a pure function
// of its inputs:
//
//	k = H(x || m) mod r
//	A = k·G,  B = k·M
//	c = H(M || P || S || A || B) mod r
//	s = k - c·x
//
// The verifier recomputes A' = s·G + c·P and B' = s·M + c·S and accepts when the
// recomputed challenge equals c.
//
// Group arithmetic, hashing to the curve and point encodings come from a group.Engine,
// so the same code proves over BLS12-381 and BN254 (both signature layouts) as well as
// secp256k1, edwards25519 and ristretto255.
//
// Basic Usage:
//
//	engine := bls12381.NewG2Engine()
//	scheme, err := chaumpedersen.NewScheme(engine)
//	sk, err := chaumpedersen.GenerateSecretKey(engine, rand.Reader)
//	bundle, err := scheme.Sign(sk, msg)
//	ok := scheme.Verify(sk.PublicKey(), msg, bundle)
//
// Or, for a signature produced elsewhere:
//
//	proof, err := scheme.GenerateProof(sk, msg, sig)
//	ok := scheme.VerifyProof(pk, msg, sig, proof)
//
// Verification never explains a rejection: malformed inputs and invalid proofs both
// yield false.
package chaumpedersen
