package witnessaudit

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"

	log "github.com/xuperchain/log15"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
	"github.com/davxy/w3f-bls/pkg/parser"
)

// ErrNoRelatedWitnesses is returned when the search finds nothing.
var ErrNoRelatedWitnesses = errors.New("no related witnesses found")

// Auditor loads proofs, keeps the ones that verify, and searches them for related witnesses.
type Auditor struct {
	engine   group.Engine
	scheme   *chaumpedersen.Scheme
	strategy SearchStrategy
	parser   parser.Parser
	log      log.Logger
}

// NewAuditor creates an auditor over engine with SHA-256 proofs and the default strategy.
func NewAuditor(engine group.Engine) *Auditor {
	scheme, err := chaumpedersen.NewScheme(engine)
	if err != nil {
		// SHA-256 covers every registered engine
		panic(err)
	}
	l := log.New("module", "witnessaudit")
	l.SetHandler(log.DiscardHandler())
	return &Auditor{
		engine:   engine,
		scheme:   scheme,
		strategy: NewSmartSearchStrategy(),
		log:      l,
	}
}

func (a *Auditor) WithStrategy(strategy SearchStrategy) *Auditor {
	a.strategy = strategy
	return a
}

// WithParser fixes the record parser; by default it is chosen from the file extension.
func (a *Auditor) WithParser(p parser.Parser) *Auditor {
	a.parser = p
	return a
}

// WithScheme verifies proofs with scheme, e.g. one configured with another hash.
func (a *Auditor) WithScheme(scheme *chaumpedersen.Scheme) *Auditor {
	a.scheme = scheme
	a.engine = scheme.Engine()
	return a
}

func (a *Auditor) WithLogger(l log.Logger) *Auditor {
	a.log = l
	return a
}

// LoadTranscripts reads proof records from source and returns the ones whose proofs
// verify, in file order. Undecodable records and invalid proofs are logged and skipped.
func (a *Auditor) LoadTranscripts(source string) ([]*Transcript, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open proofs: %w", err)
	}
	defer file.Close()

	p := a.parser
	if p == nil {
		p = parser.ForPath(source, parser.DefaultFieldNames())
	}
	records, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proofs: %w", err)
	}

	transcripts := make([]*Transcript, 0, len(records))
	for _, rec := range records {
		t, err := a.decode(rec)
		if err != nil {
			a.log.Warn("skipping record", "index", rec.Index, "err", err)
			continue
		}
		if !a.scheme.VerifyProof(t.PublicKey, t.Message, t.Signature, t.Proof) {
			a.log.Warn("skipping record with invalid proof", "index", rec.Index)
			continue
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, nil
}

// Audit reads proof records from source and audits the proofs of the given public key.
// An empty publicKeyHex audits every key found in the file and returns the first hit.
func (a *Auditor) Audit(ctx context.Context, source string, publicKeyHex string) (*RecoveryResult, error) {
	transcripts, err := a.LoadTranscripts(source)
	if err != nil {
		return nil, err
	}

	var only *chaumpedersen.PublicKey
	if publicKeyHex != "" {
		raw, err := parser.DecodeHex(publicKeyHex)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		if only, err = chaumpedersen.ParsePublicKey(a.engine, raw); err != nil {
			return nil, err
		}
	}

	for _, keyed := range groupByKey(transcripts) {
		if len(keyed) < 2 || (only != nil && !keyed[0].PublicKey.Equal(only)) {
			continue
		}
		result, err := a.AuditProofs(ctx, keyed, keyed[0].PublicKey)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrNoRelatedWitnesses) {
			return nil, err
		}
	}
	return nil, ErrNoRelatedWitnesses
}

// groupByKey splits transcripts by public key, keeping first-seen order.
func groupByKey(transcripts []*Transcript) [][]*Transcript {
	index := make(map[string]int)
	var groups [][]*Transcript
	for _, t := range transcripts {
		key := hex.EncodeToString(t.PublicKey.Bytes())
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}
	return groups
}

func (a *Auditor) decode(rec *parser.Record) (*Transcript, error) {
	pk, err := chaumpedersen.ParsePublicKey(a.engine, rec.PublicKey)
	if err != nil {
		return nil, err
	}
	sig, err := chaumpedersen.ParseSignature(a.engine, rec.Signature)
	if err != nil {
		return nil, err
	}
	proof, err := chaumpedersen.ParseProof(a.engine, append(append([]byte{}, rec.Challenge...), rec.Response...))
	if err != nil {
		return nil, err
	}
	return &Transcript{PublicKey: pk, Message: rec.Message, Signature: sig, Proof: proof}, nil
}

// AuditProofs searches in-memory transcripts of pk for related witnesses. Transcripts
// belonging to other keys are ignored.
func (a *Auditor) AuditProofs(ctx context.Context, transcripts []*Transcript, pk *chaumpedersen.PublicKey) (*RecoveryResult, error) {
	var own []*Transcript
	for _, t := range transcripts {
		if t.PublicKey != nil && t.PublicKey.Equal(pk) {
			own = append(own, t)
		}
	}
	if len(own) < 2 {
		return nil, fmt.Errorf("need at least 2 proofs by the key, got %d", len(own))
	}

	a.log.Info("auditing proofs", "strategy", a.strategy.Name(), "count", len(own))
	result := a.strategy.Search(ctx, a.engine, own)
	if result == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoRelatedWitnesses
	}
	a.log.Warn("secret recovered from related witnesses", "pattern", result.Pattern)
	return result, nil
}

// RecoverWithKnownRelationship tries every ordered pair of transcripts of pk under a
// known relationship k2 = a·k1 + b.
func (a *Auditor) RecoverWithKnownRelationship(transcripts []*Transcript, pk *chaumpedersen.PublicKey, ca, cb int64) (*RecoveryResult, error) {
	aBig, bBig := big.NewInt(ca), big.NewInt(cb)
	pattern := fmt.Sprintf("known_a%d_b%d", ca, cb)
	for i := range transcripts {
		for j := range transcripts {
			if i == j || !transcripts[i].PublicKey.Equal(pk) || !transcripts[j].PublicKey.Equal(pk) {
				continue
			}
			if result := solve(a.engine, transcripts, i, j, aBig, bBig, pattern); result != nil {
				return result, nil
			}
		}
	}
	return nil, fmt.Errorf("relationship a=%d, b=%d: %w", ca, cb, ErrNoRelatedWitnesses)
}
