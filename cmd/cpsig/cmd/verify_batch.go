package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davxy/w3f-bls/internal/batch"
	"github.com/davxy/w3f-bls/pkg/parser"
)

// VerifyBatchCommand verifies every record of a proofs file.
type VerifyBatchCommand struct {
	cli *Cli
	cmd *cobra.Command

	input   string
	workers int
	quiet   bool
}

// NewVerifyBatchCommand new verify-batch cmd
func NewVerifyBatchCommand(cli *Cli) *cobra.Command {
	c := new(VerifyBatchCommand)
	c.cli = cli
	c.cmd = &cobra.Command{
		Use:     "verify-batch",
		Short:   "Verify every proof in a JSON or CSV file.",
		Example: "cpsig verify-batch --input proofs.json --workers 8",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.verify(cmd.Context())
		},
	}
	c.addFlags()
	return c.cmd
}

func (c *VerifyBatchCommand) addFlags() {
	c.cmd.Flags().StringVarP(&c.input, "input", "i", "", "proofs file (.json or .csv)")
	c.cmd.Flags().IntVarP(&c.workers, "workers", "w", 0, "number of workers (0 = number of CPUs)")
	c.cmd.Flags().BoolVarP(&c.quiet, "quiet", "q", false, "only print the summary")
	c.cmd.MarkFlagRequired("input")
}

func (c *VerifyBatchCommand) verify(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scheme, err := c.cli.Scheme()
	if err != nil {
		return err
	}
	records, err := parser.ParseFile(c.input)
	if err != nil {
		return err
	}
	c.cli.Logger().Info("verifying proofs", "count", len(records), "engine", scheme.Engine().Name())

	results, err := batch.Verify(ctx, scheme, records, c.workers)
	if err != nil {
		return err
	}

	out := c.cmd.OutOrStdout()
	if !c.quiet {
		for _, r := range results {
			status := "valid"
			if !r.Valid {
				status = "rejected"
			}
			fmt.Fprintf(out, "%d\t%s\n", r.Index, status)
		}
	}
	valid, rejected := batch.Summary(results)
	fmt.Fprintf(out, "valid: %d, rejected: %d\n", valid, rejected)
	if rejected > 0 {
		return fmt.Errorf("%d of %d records: %w", rejected, len(results), errProofRejected)
	}
	return nil
}

func init() {
	AddCommand(NewVerifyBatchCommand)
}
