package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/parser"
	"github.com/davxy/w3f-bls/pkg/witnessaudit"
)

// AuditCommand searches a proofs file for witnesses that reveal the secret key.
type AuditCommand struct {
	cli *Cli
	cmd *cobra.Command

	proofs    string
	format    string
	publicKey string
	knownA    int64
	knownB    int64
	aRange    string
	bRange    string
	maxPairs  int
	workers   int
	timeout   time.Duration
}

// NewAuditCommand new audit cmd
func NewAuditCommand(cli *Cli) *cobra.Command {
	c := new(AuditCommand)
	c.cli = cli
	c.cmd = &cobra.Command{
		Use:   "audit",
		Short: "Search proofs for related witnesses (k2 = a*k1 + b) that leak the secret key.",
		Example: "cpsig audit --proofs proofs.json\n" +
			"cpsig audit --proofs proofs.csv --known-a 1 --known-b 1\n" +
			"cpsig audit --proofs proofs.json --a-range 1,4 --b-range -1000,1000 --workers 8",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return c.audit(ctx)
		},
	}
	c.addFlags()
	return c.cmd
}

func (c *AuditCommand) addFlags() {
	c.cmd.Flags().StringVarP(&c.proofs, "proofs", "i", "", "proofs file (JSON or CSV)")
	c.cmd.Flags().StringVar(&c.format, "format", "", "proofs file format (json or csv), default from the file extension")
	c.cmd.Flags().StringVarP(&c.publicKey, "public-key", "p", "", "only audit proofs by this public key (hex)")
	c.cmd.Flags().Int64Var(&c.knownA, "known-a", 0, "known affine coefficient a (k2 = a*k1 + b)")
	c.cmd.Flags().Int64Var(&c.knownB, "known-b", 0, "known affine offset b (k2 = a*k1 + b)")
	c.cmd.Flags().StringVar(&c.aRange, "a-range", "", "range for a in the exhaustive phase (format: min,max)")
	c.cmd.Flags().StringVar(&c.bRange, "b-range", "", "range for b in the exhaustive phase (format: min,max)")
	c.cmd.Flags().IntVar(&c.maxPairs, "max-pairs", 100, "maximum proof pairs to test in the exhaustive phase")
	c.cmd.Flags().IntVarP(&c.workers, "workers", "w", 0, "number of parallel workers (0 = number of CPUs)")
	c.cmd.Flags().DurationVar(&c.timeout, "timeout", 0, "stop searching after this long (0 = no limit)")
	c.cmd.MarkFlagRequired("proofs")
}

func (c *AuditCommand) audit(ctx context.Context) error {
	scheme, err := c.cli.Scheme()
	if err != nil {
		return err
	}
	auditor := witnessaudit.NewAuditor(scheme.Engine()).
		WithScheme(scheme).
		WithLogger(c.cli.Logger())

	switch strings.ToLower(c.format) {
	case "":
	case "json":
		auditor.WithParser(&parser.JSONParser{Fields: parser.DefaultFieldNames()})
	case "csv":
		auditor.WithParser(&parser.CSVParser{Fields: parser.DefaultFieldNames()})
	default:
		return fmt.Errorf("unknown format %q", c.format)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out := c.cmd.OutOrStdout()
	var result *witnessaudit.RecoveryResult
	if c.knownA != 0 || c.knownB != 0 {
		fmt.Fprintf(out, "Using known relationship: k2 = %d*k1 + %d\n", c.knownA, c.knownB)
		result, err = c.recoverKnown(auditor, scheme)
	} else {
		strategy, serr := c.strategy()
		if serr != nil {
			return serr
		}
		fmt.Fprintf(out, "Loading proofs from %s...\n", c.proofs)
		result, err = auditor.WithStrategy(strategy).Audit(ctx, c.proofs, c.publicKey)
	}
	if errors.Is(err, witnessaudit.ErrNoRelatedWitnesses) {
		fmt.Fprintln(out, "[-] No related witnesses found.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n[+] Recovered secret key from proofs %d and %d:\n", result.TranscriptPair[0], result.TranscriptPair[1])
	fmt.Fprintf(out, "    Secret key: 0x%s\n", result.Secret.Text(16))
	fmt.Fprintf(out, "    Relationship: k2 = %s*k1 + %s\n", result.Relationship.A, result.Relationship.B)
	fmt.Fprintf(out, "    Pattern: %s\n", result.Pattern)
	if result.Verified {
		fmt.Fprintln(out, "    Verified against public key.")
	}
	return nil
}

func (c *AuditCommand) recoverKnown(auditor *witnessaudit.Auditor, scheme *chaumpedersen.Scheme) (*witnessaudit.RecoveryResult, error) {
	transcripts, err := auditor.LoadTranscripts(c.proofs)
	if err != nil {
		return nil, err
	}
	if len(transcripts) < 2 {
		return nil, fmt.Errorf("need at least 2 valid proofs, got %d", len(transcripts))
	}

	pk := transcripts[0].PublicKey
	if c.publicKey != "" {
		raw, err := parser.DecodeHex(c.publicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		if pk, err = chaumpedersen.ParsePublicKey(scheme.Engine(), raw); err != nil {
			return nil, err
		}
	}
	return auditor.RecoverWithKnownRelationship(transcripts, pk, c.knownA, c.knownB)
}

func (c *AuditCommand) strategy() (*witnessaudit.SmartSearchStrategy, error) {
	config := witnessaudit.DefaultRangeConfig()
	config.MaxPairs = c.maxPairs
	config.NumWorkers = c.workers
	if c.aRange != "" {
		min, max, err := parseRange(c.aRange)
		if err != nil {
			return nil, fmt.Errorf("failed to parse a-range: %w", err)
		}
		config.ARange = [2]int{min, max}
	}
	if c.bRange != "" {
		min, max, err := parseRange(c.bRange)
		if err != nil {
			return nil, fmt.Errorf("failed to parse b-range: %w", err)
		}
		config.BRange = [2]int{min, max}
	}
	return witnessaudit.NewSmartSearchStrategy().
		WithRangeConfig(config).
		WithLogger(c.cli.Logger()), nil
}

func parseRange(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range format: %s", s)
	}
	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	max, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	if min > max {
		return 0, 0, fmt.Errorf("invalid range %s: min > max", s)
	}
	return min, max, nil
}

func init() {
	AddCommand(NewAuditCommand)
}
