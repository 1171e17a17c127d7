package chaumpedersen

import (
	"fmt"

	"github.com/davxy/w3f-bls/pkg/group"
)

// Scheme proves and verifies over a single group engine with a fixed hash.
// A Scheme is immutable after construction and safe for concurrent use.
type Scheme struct {
	engine group.Engine
	hash   Hash

	// witnessObserver, when set, sees the witness just before it is wiped.
	witnessObserver func(group.Scalar)
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithHash selects the hash function. The default is SHA256.
func WithHash(h Hash) Option {
	return func(s *Scheme) {
		s.hash = h
	}
}

// NewScheme creates a scheme over engine.
func NewScheme(engine group.Engine, opts ...Option) (*Scheme, error) {
	s := &Scheme{
		engine: engine,
		hash:   SHA256,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hash.new == nil {
		return nil, fmt.Errorf("no hash function configured")
	}
	if bits := s.hash.Size() * 8; bits < engine.Order().BitLen() {
		return nil, fmt.Errorf("%s over %s (%d < %d bits): %w",
			s.hash.Name(), engine.Name(), bits, engine.Order().BitLen(), ErrHashTooShort)
	}
	return s, nil
}

// Engine returns the group engine the scheme operates on.
func (s *Scheme) Engine() group.Engine { return s.engine }

// Hash returns the configured hash.
func (s *Scheme) Hash() Hash { return s.hash }

func (s *Scheme) owns(e group.Engine) bool {
	return e != nil && e.Name() == s.engine.Name()
}

// Sign signs msg with sk and attaches a proof that the signature and sk.PublicKey()
// share the same discrete log.
func (s *Scheme) Sign(sk *SecretKey, msg []byte) (*SignatureWithProof, error) {
	sig, err := sk.SignMessage(msg)
	if err != nil {
		return nil, err
	}
	proof, err := s.GenerateProof(sk, msg, sig)
	if err != nil {
		return nil, err
	}
	return &SignatureWithProof{Signature: sig, Proof: proof}, nil
}

// Verify checks the proof carried by bundle. It does not run the pairing check of the
// underlying signature scheme.
func (s *Scheme) Verify(pk *PublicKey, msg []byte, bundle *SignatureWithProof) bool {
	if bundle == nil {
		return false
	}
	return s.VerifyProof(pk, msg, bundle.Signature, bundle.Proof)
}
