package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group/suite"
)

// EnginesCommand lists the group engines and hashes.
type EnginesCommand struct {
	cli *Cli
	cmd *cobra.Command
}

// NewEnginesCommand new engines cmd
func NewEnginesCommand(cli *Cli) *cobra.Command {
	c := new(EnginesCommand)
	c.cli = cli
	c.cmd = &cobra.Command{
		Use:   "engines",
		Short: "List supported group engines and challenge hashes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.list()
		},
	}
	return c.cmd
}

func (c *EnginesCommand) list() error {
	out := c.cmd.OutOrStdout()
	fmt.Fprintln(out, "engines:")
	for _, engine := range suite.All() {
		mark := " "
		if engine.Name() == suite.Default {
			mark = "*"
		}
		fmt.Fprintf(out, " %s %-14s order=%d bits scalar=%dB point=%dB\n",
			mark, engine.Name(), engine.Order().BitLen(), engine.ScalarSize(), engine.PointSize())
	}
	fmt.Fprintln(out, "hashes:")
	for _, name := range chaumpedersen.HashNames() {
		fmt.Fprintf(out, "   %s\n", name)
	}
	return nil
}

func init() {
	AddCommand(NewEnginesCommand)
}
