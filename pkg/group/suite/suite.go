// Package suite resolves engine names to group.Engine implementations.
package suite

import (
	"fmt"
	"sort"

	"github.com/davxy/w3f-bls/pkg/group"
	"github.com/davxy/w3f-bls/pkg/group/bls12381"
	"github.com/davxy/w3f-bls/pkg/group/bn254"
	"github.com/davxy/w3f-bls/pkg/group/ed25519"
	"github.com/davxy/w3f-bls/pkg/group/ristretto255"
	"github.com/davxy/w3f-bls/pkg/group/secp256k1"
)

// Default is the engine used when none is configured.
const Default = bls12381.G2Name

var constructors = map[string]func() group.Engine{
	bls12381.G1Name:   func() group.Engine { return bls12381.NewG1Engine() },
	bls12381.G2Name:   func() group.Engine { return bls12381.NewG2Engine() },
	bn254.G1Name:      func() group.Engine { return bn254.NewG1Engine() },
	bn254.G2Name:      func() group.Engine { return bn254.NewG2Engine() },
	secp256k1.Name:    func() group.Engine { return secp256k1.NewEngine() },
	ed25519.Name:      func() group.Engine { return ed25519.NewEngine() },
	ristretto255.Name: func() group.Engine { return ristretto255.NewEngine() },
}

// Lookup returns a fresh engine for name.
func Lookup(name string) (group.Engine, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists the registered engines in lexical order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns one instance of every registered engine.
func All() []group.Engine {
	names := Names()
	engines := make([]group.Engine, 0, len(names))
	for _, name := range names {
		engines = append(engines, constructors[name]())
	}
	return engines
}
