package witnessaudit

import (
	"context"
	"fmt"
	"math/big"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/xuperchain/log15"

	"github.com/davxy/w3f-bls/pkg/group"
)

type searchRange struct {
	aRange [2]int
	bRange [2]int
	name   string
}

var adaptiveRanges = []searchRange{
	{[2]int{1, 1}, [2]int{-100, 100}, "a=1, small b"},
	{[2]int{1, 1}, [2]int{-1000, 1000}, "a=1, medium b"},
	{[2]int{1, 1}, [2]int{-10000, 10000}, "a=1, large b"},
	{[2]int{2, 4}, [2]int{-1000, 1000}, "small a, medium b"},
	{[2]int{-5, -1}, [2]int{-1000, 1000}, "negative a, medium b"},
	{[2]int{1, 10}, [2]int{-5000, 5000}, "wide a, large b"},
}

// SmartSearchStrategy runs, in order: exact witness reuse, common patterns, custom
// patterns, and a parallel range search.
type SmartSearchStrategy struct {
	RangeConfig   RangeConfig
	PatternConfig PatternConfig

	log log.Logger
}

func NewSmartSearchStrategy() *SmartSearchStrategy {
	l := log.New("module", "witnessaudit")
	l.SetHandler(log.DiscardHandler())
	return &SmartSearchStrategy{
		RangeConfig:   DefaultRangeConfig(),
		PatternConfig: DefaultPatternConfig(),
		log:           l,
	}
}

func (s *SmartSearchStrategy) WithRangeConfig(config RangeConfig) *SmartSearchStrategy {
	s.RangeConfig = config
	return s
}

func (s *SmartSearchStrategy) WithPatternConfig(config PatternConfig) *SmartSearchStrategy {
	s.PatternConfig = config
	return s
}

// WithLogger routes progress messages to l.
func (s *SmartSearchStrategy) WithLogger(l log.Logger) *SmartSearchStrategy {
	s.log = l
	return s
}

func (s *SmartSearchStrategy) Name() string {
	return "SmartSearch"
}

// Search implements SearchStrategy. All transcripts must belong to the same public key.
func (s *SmartSearchStrategy) Search(ctx context.Context, e group.Engine, transcripts []*Transcript) *RecoveryResult {
	if len(transcripts) < 2 || e == nil {
		return nil
	}
	s.log.Info("starting witness audit", "engine", e.Name(), "transcripts", len(transcripts))

	if result := s.checkWitnessReuse(e, transcripts); result != nil {
		s.log.Warn("witness reuse found", "pair", fmt.Sprint(result.TranscriptPair))
		return result
	}

	if s.PatternConfig.IncludeCommonPatterns {
		if result := s.tryPatterns(ctx, e, transcripts, commonPatterns); result != nil {
			s.log.Warn("common witness pattern found", "pattern", result.Pattern, "pair", fmt.Sprint(result.TranscriptPair))
			return result
		}
	}

	if len(s.PatternConfig.CustomPatterns) > 0 {
		custom := append([]Pattern(nil), s.PatternConfig.CustomPatterns...)
		sort.SliceStable(custom, func(i, j int) bool { return custom[i].Priority < custom[j].Priority })
		if result := s.tryPatterns(ctx, e, transcripts, custom); result != nil {
			s.log.Warn("custom witness pattern found", "pattern", result.Pattern, "pair", fmt.Sprint(result.TranscriptPair))
			return result
		}
	}

	return s.adaptiveRangeSearch(ctx, e, transcripts)
}

// checkWitnessReuse finds two transcripts with identical commitments, i.e. k1 == k2.
func (s *SmartSearchStrategy) checkWitnessReuse(e group.Engine, transcripts []*Transcript) *RecoveryResult {
	one, zero := big.NewInt(1), big.NewInt(0)
	for i := 0; i < len(transcripts); i++ {
		for j := i + 1; j < len(transcripts); j++ {
			if !transcripts[i].Commitment(e).Equal(transcripts[j].Commitment(e)) {
				continue
			}
			if result := solve(e, transcripts, i, j, one, zero, "same_witness"); result != nil {
				return result
			}
		}
	}
	return nil
}

func (s *SmartSearchStrategy) tryPatterns(ctx context.Context, e group.Engine, transcripts []*Transcript, patterns []Pattern) *RecoveryResult {
	for _, pattern := range patterns {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		s.log.Debug("trying pattern", "name", pattern.Name, "a", pattern.A.String(), "b", pattern.B.String())
		if result := s.tryPattern(e, transcripts, pattern); result != nil {
			return result
		}
	}
	return nil
}

// tryPattern tests one relationship in both directions across all pairs.
func (s *SmartSearchStrategy) tryPattern(e group.Engine, transcripts []*Transcript, pattern Pattern) *RecoveryResult {
	for i := 0; i < len(transcripts); i++ {
		for j := 0; j < len(transcripts); j++ {
			if i == j {
				continue
			}
			if !relationHolds(e, transcripts[i], transcripts[j], pattern.A, pattern.B) {
				continue
			}
			if result := solve(e, transcripts, i, j, pattern.A, pattern.B, pattern.Name); result != nil {
				return result
			}
		}
	}
	return nil
}

func (s *SmartSearchStrategy) adaptiveRangeSearch(ctx context.Context, e group.Engine, transcripts []*Transcript) *RecoveryResult {
	ranges := adaptiveRanges
	if s.RangeConfig.ARange != [2]int{} || s.RangeConfig.BRange != [2]int{} {
		ranges = []searchRange{{s.RangeConfig.ARange, s.RangeConfig.BRange, "custom range"}}
	}

	for _, r := range ranges {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		s.log.Info("range search", "phase", r.name,
			"a_min", r.aRange[0], "a_max", r.aRange[1], "b_min", r.bRange[0], "b_max", r.bRange[1])
		if result := s.rangeSearch(ctx, e, transcripts, r.aRange, r.bRange); result != nil {
			return result
		}
	}
	s.log.Info("range search exhausted, no related witnesses")
	return nil
}

// rangeSearch fans ordered transcript pairs out to workers. For each a, a worker forms
// D = A2 - a·A1 once and walks b·G over the b range by repeated addition of G.
func (s *SmartSearchStrategy) rangeSearch(ctx context.Context, e group.Engine, transcripts []*Transcript, aRange, bRange [2]int) *RecoveryResult {
	numWorkers := s.RangeConfig.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	maxPairs := s.RangeConfig.MaxPairs
	if maxPairs <= 0 {
		maxPairs = len(transcripts) * len(transcripts)
	}

	// stops the producer and the ticker once a worker returns a result
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// warm the commitment cache before sharing transcripts across goroutines
	for _, t := range transcripts {
		t.Commitment(e)
	}

	var tested int64
	var found int32
	resultChan := make(chan *RecoveryResult, 1)
	workChan := make(chan [2]int, numWorkers*4)

	go func() {
		defer close(workChan)
		pairs := 0
		for i := 0; i < len(transcripts) && pairs < maxPairs; i++ {
			for j := 0; j < len(transcripts) && pairs < maxPairs; j++ {
				if i == j {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case workChan <- [2]int{i, j}:
					pairs++
				}
			}
		}
	}()

	progressDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-progressDone:
				return
			case <-ticker.C:
				s.log.Info("range search progress", "tested", atomic.LoadInt64(&tested))
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case pair, ok := <-workChan:
					if !ok {
						return
					}
					if result := s.searchPair(ctx, e, transcripts, pair, aRange, bRange, &found, &tested); result != nil {
						if atomic.CompareAndSwapInt32(&found, 0, 1) {
							resultChan <- result
						}
						return
					}
					if atomic.LoadInt32(&found) == 1 {
						return
					}
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	defer close(progressDone)
	select {
	case result := <-resultChan:
		s.log.Info("related witnesses found", "tested", atomic.LoadInt64(&tested),
			"a", result.Relationship.A.String(), "b", result.Relationship.B.String())
		return result
	case <-ctx.Done():
		s.log.Info("range search cancelled", "tested", atomic.LoadInt64(&tested))
		return nil
	case <-done:
		select {
		case result := <-resultChan:
			return result
		default:
		}
		s.log.Debug("range exhausted", "tested", atomic.LoadInt64(&tested))
		return nil
	}
}

func (s *SmartSearchStrategy) searchPair(ctx context.Context, e group.Engine, transcripts []*Transcript, pair [2]int, aRange, bRange [2]int, found *int32, tested *int64) *RecoveryResult {
	a1 := transcripts[pair[0]].Commitment(e)
	a2 := transcripts[pair[1]].Commitment(e)
	g := e.Generator()

	for a := aRange[0]; a <= aRange[1]; a++ {
		if a == 0 && s.RangeConfig.SkipZeroA {
			continue
		}
		if atomic.LoadInt32(found) == 1 || ctx.Err() != nil {
			return nil
		}
		aBig := big.NewInt(int64(a))
		negA := e.SetBigInt(new(big.Int).Neg(aBig))
		target := e.Add(a2, e.ScalarMult(a1, negA))

		walk := e.ScalarBaseMult(e.SetBigInt(big.NewInt(int64(bRange[0]))))
		for b := bRange[0]; b <= bRange[1]; b++ {
			atomic.AddInt64(tested, 1)
			if walk.Equal(target) {
				bBig := big.NewInt(int64(b))
				pattern := fmt.Sprintf("range_a%d_b%d", a, b)
				if result := solve(e, transcripts, pair[0], pair[1], aBig, bBig, pattern); result != nil {
					return result
				}
			}
			walk = e.Add(walk, g)
		}
	}
	return nil
}
