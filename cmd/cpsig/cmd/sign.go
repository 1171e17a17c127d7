package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davxy/w3f-bls/pkg/parser"
)

// SignCommand signs a message and attaches a proof of possession.
type SignCommand struct {
	cli *Cli
	cmd *cobra.Command

	keyFile    string
	secretKey  string
	message    string
	messageHex string
	bundle     bool
	appendTo   string
}

// NewSignCommand new sign cmd
func NewSignCommand(cli *Cli) *cobra.Command {
	c := new(SignCommand)
	c.cli = cli
	c.cmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign a message and prove the signature matches the public key.",
		Example: "cpsig sign --key-file key.json --message hello\n" +
			"cpsig sign --key-file key.json --message-hex 68656c6c6f --append proofs.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sign()
		},
	}
	c.addFlags()
	return c.cmd
}

func (c *SignCommand) addFlags() {
	c.cmd.Flags().StringVarP(&c.keyFile, "key-file", "k", "", "key file written by keygen")
	c.cmd.Flags().StringVar(&c.secretKey, "secret-key", "", "secret key in hex")
	c.cmd.Flags().StringVarP(&c.message, "message", "m", "", "message as text")
	c.cmd.Flags().StringVar(&c.messageHex, "message-hex", "", "message as hex")
	c.cmd.Flags().BoolVar(&c.bundle, "bundle", false, "print the encoded signature bundle instead of a record")
	c.cmd.Flags().StringVar(&c.appendTo, "append", "", "append the record to this JSON proofs file")
}

func (c *SignCommand) sign() error {
	scheme, err := c.cli.Scheme()
	if err != nil {
		return err
	}
	msg, err := messageFromFlags(c.cmd, c.message, c.messageHex)
	if err != nil {
		return err
	}
	sk, err := loadSecretKey(scheme.Engine(), c.keyFile, c.secretKey)
	if err != nil {
		return err
	}
	defer sk.Zeroize()

	signed, err := scheme.Sign(sk, msg)
	if err != nil {
		return err
	}
	c.cli.Logger().Debug("message signed", "engine", scheme.Engine().Name(), "hash", scheme.Hash().Name())

	out := c.cmd.OutOrStdout()
	if c.bundle {
		data, err := signed.MarshalBinary()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hex.EncodeToString(data))
		return nil
	}

	proof := signed.Proof.Bytes()
	n := scheme.Engine().ScalarSize()
	rec := &parser.Record{
		PublicKey: sk.PublicKey().Bytes(),
		Message:   msg,
		Signature: signed.Signature.Bytes(),
		Challenge: proof[:n],
		Response:  proof[n:],
	}
	if c.appendTo != "" {
		return appendRecord(c.appendTo, rec)
	}
	return parser.WriteJSON(out, []*parser.Record{rec})
}

// appendRecord adds rec to the JSON proofs file at path, creating it if needed.
func appendRecord(path string, rec *parser.Record) error {
	var records []*parser.Record
	if _, err := os.Stat(path); err == nil {
		if records, err = parser.ParseFile(path); err != nil {
			return err
		}
	}
	records = append(records, rec)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open proofs file: %w", err)
	}
	if err := parser.WriteJSON(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// messageFromFlags returns the message given by --message or --message-hex. An empty
// message is allowed as long as one of them is set.
func messageFromFlags(cmd *cobra.Command, text, hexText string) ([]byte, error) {
	textSet := cmd.Flags().Changed("message")
	hexSet := cmd.Flags().Changed("message-hex")
	switch {
	case textSet && hexSet:
		return nil, fmt.Errorf("--message and --message-hex are mutually exclusive")
	case hexSet:
		msg, err := parser.DecodeHex(hexText)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message: %w", err)
		}
		return msg, nil
	case textSet:
		return []byte(text), nil
	}
	return nil, fmt.Errorf("a message is required: use --message or --message-hex")
}

func init() {
	AddCommand(NewSignCommand)
}
