package witnessaudit

import (
	"context"
	"math/big"

	"github.com/davxy/w3f-bls/pkg/group"
)

// SearchStrategy looks for related witnesses among transcripts by one key.
type SearchStrategy interface {
	// Search returns a verified result, or nil when nothing was found or ctx ended.
	Search(ctx context.Context, engine group.Engine, transcripts []*Transcript) *RecoveryResult

	Name() string
}

// Pattern is a specific relationship k2 = A·k1 + B to test.
type Pattern struct {
	A        *big.Int
	B        *big.Int
	Name     string
	Priority int // lower runs first
}

// RangeConfig bounds the exhaustive phase.
type RangeConfig struct {
	// ARange and BRange are inclusive [min, max] bounds.
	ARange [2]int
	BRange [2]int

	// MaxPairs limits the number of transcript pairs examined.
	MaxPairs int

	// NumWorkers controls parallelism (0 = runtime.NumCPU()).
	NumWorkers int

	SkipZeroA bool
}

// DefaultRangeConfig leaves the adaptive schedule in charge of the ranges.
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		MaxPairs:   100,
		NumWorkers: 0,
		SkipZeroA:  true,
	}
}

// PatternConfig configures the pattern phases.
type PatternConfig struct {
	CustomPatterns        []Pattern
	IncludeCommonPatterns bool
}

func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		CustomPatterns:        []Pattern{},
		IncludeCommonPatterns: true,
	}
}

// CommonPatterns returns a copy of the built-in patterns, in the order they are tried.
func CommonPatterns() []Pattern {
	return append([]Pattern(nil), commonPatterns...)
}

var commonPatterns = []Pattern{
	{A: big.NewInt(1), B: big.NewInt(1), Name: "counter_+1", Priority: 2},
	{A: big.NewInt(1), B: big.NewInt(-1), Name: "counter_-1", Priority: 2},
	{A: big.NewInt(1), B: big.NewInt(2), Name: "counter_+2", Priority: 3},
	{A: big.NewInt(1), B: big.NewInt(-2), Name: "counter_-2", Priority: 3},
	{A: big.NewInt(1), B: big.NewInt(8), Name: "step_8", Priority: 4},
	{A: big.NewInt(1), B: big.NewInt(16), Name: "step_16", Priority: 4},
	{A: big.NewInt(1), B: big.NewInt(256), Name: "step_256", Priority: 4},
	{A: big.NewInt(1), B: big.NewInt(1024), Name: "step_1024", Priority: 4},
	{A: big.NewInt(2), B: big.NewInt(0), Name: "double", Priority: 5},
	{A: big.NewInt(2), B: big.NewInt(1), Name: "double_+1", Priority: 5},
	{A: big.NewInt(-1), B: big.NewInt(0), Name: "negate", Priority: 6},
}
