package chaumpedersen

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hash is a named hash function used for both witness derivation and the challenge.
type Hash struct {
	name string
	size int
	new  func() hash.Hash
}

var (
	SHA256   = Hash{name: "sha256", size: sha256.Size, new: sha256.New}
	SHA512   = Hash{name: "sha512", size: sha512.Size, new: sha512.New}
	SHA3_256 = Hash{name: "sha3-256", size: 32, new: sha3.New256}

	BLAKE2b512 = Hash{name: "blake2b-512", size: blake2b.Size, new: func() hash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	}}
)

var hashes = []Hash{SHA256, SHA512, SHA3_256, BLAKE2b512}

// HashByName resolves a hash by its name, case-insensitively.
func HashByName(name string) (Hash, error) {
	for _, h := range hashes {
		if strings.EqualFold(h.name, name) {
			return h, nil
		}
	}
	return Hash{}, fmt.Errorf("unknown hash %q (available: %s)", name, strings.Join(HashNames(), ", "))
}

// HashNames lists the supported hash names.
func HashNames() []string {
	names := make([]string, len(hashes))
	for i, h := range hashes {
		names[i] = h.name
	}
	return names
}

func (h Hash) Name() string { return h.name }

// Size is the digest length in bytes.
func (h Hash) Size() int { return h.size }

func (h Hash) New() hash.Hash { return h.new() }
