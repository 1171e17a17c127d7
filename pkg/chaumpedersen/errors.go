package chaumpedersen

import "errors"

var (
	// ErrSignatureMismatch is returned by the prover when the signature is not x·H(m).
	ErrSignatureMismatch = errors.New("chaumpedersen: signature does not match secret key and message")

	// ErrEngineMismatch is returned when keys, signatures or bundles belong to another group.
	ErrEngineMismatch = errors.New("chaumpedersen: value belongs to a different group engine")

	// ErrHashTooShort is returned when the hash output is narrower than the group order.
	ErrHashTooShort = errors.New("chaumpedersen: hash output shorter than group order")

	// ErrZeroSecret is returned for a secret key equal to zero.
	ErrZeroSecret = errors.New("chaumpedersen: secret key is zero")

	// ErrMalformedBundle is returned when a signature bundle cannot be decoded.
	ErrMalformedBundle = errors.New("chaumpedersen: malformed signature bundle")
)
