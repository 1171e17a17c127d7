package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
	"github.com/davxy/w3f-bls/pkg/parser"
)

// KeyFile is the on-disk key pair written by keygen.
type KeyFile struct {
	Engine    string `json:"engine"`
	SecretKey string `json:"secret_key"`
	PublicKey string `json:"public_key"`
}

// KeygenCommand generates a key pair.
type KeygenCommand struct {
	cli *Cli
	cmd *cobra.Command

	output string
}

// NewKeygenCommand new keygen cmd
func NewKeygenCommand(cli *Cli) *cobra.Command {
	c := new(KeygenCommand)
	c.cli = cli
	c.cmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secret key and its public key.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.generate()
		},
	}
	c.addFlags()
	return c.cmd
}

func (c *KeygenCommand) addFlags() {
	c.cmd.Flags().StringVarP(&c.output, "output", "o", "", "write the key pair to this file instead of stdout")
}

func (c *KeygenCommand) generate() error {
	engine, err := c.cli.LookupEngine()
	if err != nil {
		return err
	}
	sk, err := chaumpedersen.GenerateSecretKey(engine, rand.Reader)
	if err != nil {
		return err
	}
	defer sk.Zeroize()

	skBytes := sk.Bytes()
	defer group.WipeBytes(skBytes)
	kf := &KeyFile{
		Engine:    engine.Name(),
		SecretKey: hex.EncodeToString(skBytes),
		PublicKey: hex.EncodeToString(sk.PublicKey().Bytes()),
	}
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}

	if c.output == "" {
		fmt.Fprintln(c.cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := ioutil.WriteFile(c.output, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	c.cli.Logger().Info("key pair written", "path", c.output, "engine", engine.Name())
	fmt.Fprintf(c.cmd.OutOrStdout(), "public key: %s\n", kf.PublicKey)
	return nil
}

// loadSecretKey reads a secret key from a key file, or from hex when path is empty.
func loadSecretKey(engine group.Engine, path, skHex string) (*chaumpedersen.SecretKey, error) {
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		var kf KeyFile
		if err := json.Unmarshal(data, &kf); err != nil {
			return nil, fmt.Errorf("failed to parse key file: %w", err)
		}
		if kf.Engine != "" && kf.Engine != engine.Name() {
			return nil, fmt.Errorf("key file is for %s, not %s: %w", kf.Engine, engine.Name(), chaumpedersen.ErrEngineMismatch)
		}
		skHex = kf.SecretKey
	}
	if skHex == "" {
		if skHex = os.Getenv("CPSIG_SECRET_KEY"); skHex == "" {
			return nil, fmt.Errorf("no secret key: use --key-file, --secret-key or CPSIG_SECRET_KEY")
		}
	}
	raw, err := parser.DecodeHex(skHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse secret key: %w", err)
	}
	defer group.WipeBytes(raw)
	return chaumpedersen.NewSecretKey(engine, raw)
}

func init() {
	AddCommand(NewKeygenCommand)
}
