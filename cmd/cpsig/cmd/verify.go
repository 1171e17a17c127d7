package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/parser"
)

var errProofRejected = errors.New("proof rejected")

// VerifyCommand checks one proof of possession.
type VerifyCommand struct {
	cli *Cli
	cmd *cobra.Command

	publicKey  string
	message    string
	messageHex string
	signature  string
	challenge  string
	response   string
	bundle     string
}

// NewVerifyCommand new verify cmd
func NewVerifyCommand(cli *Cli) *cobra.Command {
	c := new(VerifyCommand)
	c.cli = cli
	c.cmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify that a signature and a public key share one secret key.",
		Example: "cpsig verify --public-key <hex> --message hello --signature <hex> --challenge <hex> --response <hex>\n" +
			"cpsig verify --public-key <hex> --message hello --bundle <hex>",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.verify()
		},
	}
	c.addFlags()
	return c.cmd
}

func (c *VerifyCommand) addFlags() {
	c.cmd.Flags().StringVarP(&c.publicKey, "public-key", "p", "", "public key in hex")
	c.cmd.Flags().StringVarP(&c.message, "message", "m", "", "message as text")
	c.cmd.Flags().StringVar(&c.messageHex, "message-hex", "", "message as hex")
	c.cmd.Flags().StringVar(&c.signature, "signature", "", "signature in hex")
	c.cmd.Flags().StringVar(&c.challenge, "challenge", "", "proof challenge in hex")
	c.cmd.Flags().StringVar(&c.response, "response", "", "proof response in hex")
	c.cmd.Flags().StringVar(&c.bundle, "bundle", "", "encoded signature bundle in hex, replaces the three fields above")
}

func (c *VerifyCommand) verify() error {
	scheme, err := c.cli.Scheme()
	if err != nil {
		return err
	}
	engine := scheme.Engine()

	msg, err := messageFromFlags(c.cmd, c.message, c.messageHex)
	if err != nil {
		return err
	}

	// undecodable inputs are rejected like a failing proof
	pk, signed, err := c.decode(scheme)
	if err != nil {
		c.cli.Logger().Debug("undecodable proof input", "err", err)
	}
	if err != nil || !scheme.Verify(pk, msg, signed) {
		c.cli.Logger().Info("proof rejected", "engine", engine.Name())
		fmt.Fprintln(c.cmd.OutOrStdout(), "invalid")
		return errProofRejected
	}
	fmt.Fprintln(c.cmd.OutOrStdout(), "valid")
	return nil
}

func (c *VerifyCommand) decode(scheme *chaumpedersen.Scheme) (*chaumpedersen.PublicKey, *chaumpedersen.SignatureWithProof, error) {
	pkBytes, err := parser.DecodeHex(c.publicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	pk, err := chaumpedersen.ParsePublicKey(scheme.Engine(), pkBytes)
	if err != nil {
		return nil, nil, err
	}
	signed, err := c.signedFromFlags(scheme)
	if err != nil {
		return nil, nil, err
	}
	return pk, signed, nil
}

func (c *VerifyCommand) signedFromFlags(scheme *chaumpedersen.Scheme) (*chaumpedersen.SignatureWithProof, error) {
	if c.bundle != "" {
		data, err := parser.DecodeHex(c.bundle)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bundle: %w", err)
		}
		return scheme.UnmarshalBundle(data)
	}

	engine := scheme.Engine()
	sigBytes, err := parser.DecodeHex(c.signature)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature: %w", err)
	}
	sig, err := chaumpedersen.ParseSignature(engine, sigBytes)
	if err != nil {
		return nil, err
	}
	cBytes, err := parser.DecodeHex(c.challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to parse challenge: %w", err)
	}
	sBytes, err := parser.DecodeHex(c.response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	proof, err := chaumpedersen.ParseProof(engine, append(cBytes, sBytes...))
	if err != nil {
		return nil, err
	}
	return &chaumpedersen.SignatureWithProof{Signature: sig, Proof: proof}, nil
}

func init() {
	AddCommand(NewVerifyCommand)
}
