package chaumpedersen

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire layout of a SignatureWithProof:
//
//	message SignatureWithProof {
//	  bytes engine    = 1;
//	  bytes signature = 2;
//	  bytes challenge = 3;
//	  bytes response  = 4;
//	}
const (
	fieldEngine    protowire.Number = 1
	fieldSignature protowire.Number = 2
	fieldChallenge protowire.Number = 3
	fieldResponse  protowire.Number = 4
)

// MarshalBinary encodes the bundle in protobuf wire format.
func (b *SignatureWithProof) MarshalBinary() ([]byte, error) {
	if b.Signature == nil || b.Proof == nil || b.Proof.Challenge == nil || b.Proof.Response == nil {
		return nil, fmt.Errorf("incomplete bundle: %w", ErrMalformedBundle)
	}
	var out []byte
	out = appendBytesField(out, fieldEngine, []byte(b.Signature.engine.Name()))
	out = appendBytesField(out, fieldSignature, b.Signature.Bytes())
	out = appendBytesField(out, fieldChallenge, b.Proof.Challenge.Bytes())
	out = appendBytesField(out, fieldResponse, b.Proof.Response.Bytes())
	return out, nil
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// UnmarshalBundle decodes a bundle produced by MarshalBinary. The engine recorded in the
// bundle must match the scheme's engine. Unknown fields are skipped.
func (s *Scheme) UnmarshalBundle(data []byte) (*SignatureWithProof, error) {
	fields := make(map[protowire.Number][]byte, 4)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("tag: %v: %w", protowire.ParseError(n), ErrMalformedBundle)
		}
		data = data[n:]
		if num < fieldEngine || num > fieldResponse || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("field %d: %v: %w", num, protowire.ParseError(n), ErrMalformedBundle)
			}
			data = data[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, fmt.Errorf("field %d: %v: %w", num, protowire.ParseError(n), ErrMalformedBundle)
		}
		fields[num] = v
		data = data[n:]
	}

	for _, num := range []protowire.Number{fieldEngine, fieldSignature, fieldChallenge, fieldResponse} {
		if _, ok := fields[num]; !ok {
			return nil, fmt.Errorf("missing field %d: %w", num, ErrMalformedBundle)
		}
	}
	if name := string(fields[fieldEngine]); name != s.engine.Name() {
		return nil, fmt.Errorf("bundle engine %q, scheme engine %q: %w", name, s.engine.Name(), ErrEngineMismatch)
	}

	sig, err := ParseSignature(s.engine, fields[fieldSignature])
	if err != nil {
		return nil, err
	}
	proof, err := ParseProof(s.engine, joinScalars(fields[fieldChallenge], fields[fieldResponse]))
	if err != nil {
		return nil, err
	}
	return &SignatureWithProof{Signature: sig, Proof: proof}, nil
}

func joinScalars(c, s []byte) []byte {
	out := make([]byte, 0, len(c)+len(s))
	out = append(out, c...)
	return append(out, s...)
}

// BundleEngine reads the engine name recorded in an encoded bundle without decoding the rest.
func BundleEngine(data []byte) (string, error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", fmt.Errorf("tag: %v: %w", protowire.ParseError(n), ErrMalformedBundle)
		}
		data = data[n:]
		if num == fieldEngine && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return "", fmt.Errorf("engine: %v: %w", protowire.ParseError(n), ErrMalformedBundle)
			}
			return string(v), nil
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return "", fmt.Errorf("field %d: %v: %w", num, protowire.ParseError(n), ErrMalformedBundle)
		}
		data = data[n:]
	}
	return "", fmt.Errorf("missing engine: %w", ErrMalformedBundle)
}
