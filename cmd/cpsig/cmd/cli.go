package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	log "github.com/xuperchain/log15"

	"github.com/davxy/w3f-bls/pkg/chaumpedersen"
	"github.com/davxy/w3f-bls/pkg/group"
	"github.com/davxy/w3f-bls/pkg/group/suite"
)

// CommandFunc builds a sub command bound to the cli.
type CommandFunc func(c *Cli) *cobra.Command

// Commands holds every registered sub command.
var Commands []CommandFunc

// AddCommand registers a sub command, usually from an init function.
func AddCommand(cmd CommandFunc) {
	Commands = append(Commands, cmd)
}

// RootOptions are the global options, settable by flag, CPSIG_* environment variable
// or config file, in that order of precedence.
type RootOptions struct {
	Engine   string `mapstructure:"engine"`
	Hash     string `mapstructure:"hash"`
	Config   string `mapstructure:"conf"`
	LogLevel string `mapstructure:"log-level"`
}

// Cli is the cpsig command line.
type Cli struct {
	RootOptions

	rootCmd *cobra.Command
	v       *viper.Viper
	log     log.Logger
}

// NewCli creates the root command.
func NewCli() *Cli {
	rootCmd := &cobra.Command{
		Use:           "cpsig",
		Short:         "cpsig proves that a BLS signature and a public key share one secret key.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	l := log.New("module", "cpsig")
	l.SetHandler(log.DiscardHandler())
	return &Cli{
		rootCmd: rootCmd,
		v:       viper.New(),
		log:     l,
	}
}

// SetVer sets the version string printed by --version.
func (c *Cli) SetVer(ver string) {
	c.rootCmd.Version = ver
}

func (c *Cli) initFlags() error {
	rootFlag := c.rootCmd.PersistentFlags()
	rootFlag.String("engine", suite.Default, "group engine, one of "+strings.Join(suite.Names(), ", "))
	rootFlag.String("hash", chaumpedersen.SHA256.Name(), "challenge hash, one of "+strings.Join(chaumpedersen.HashNames(), ", "))
	rootFlag.StringP("conf", "C", "", "config file (yaml)")
	rootFlag.String("log-level", "warn", "log level: debug, info, warn, error or crit")

	c.v.SetEnvPrefix("CPSIG")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return c.v.BindPFlags(rootFlag)
}

// Init binds the global flags and loads the options before any sub command runs.
func (c *Cli) Init() error {
	if err := c.initFlags(); err != nil {
		return err
	}
	c.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.loadOptions()
	}
	return nil
}

func (c *Cli) loadOptions() error {
	if conf := c.v.GetString("conf"); conf != "" {
		if err := LoadConfig(c.v, conf); err != nil {
			return err
		}
	}
	if err := c.v.Unmarshal(&c.RootOptions); err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}

	lvl, err := log.LvlFromString(c.LogLevel)
	if err != nil {
		return fmt.Errorf("bad log level %q: %w", c.LogLevel, err)
	}
	c.log.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.LogfmtFormat())))
	return nil
}

// AddCommands builds and attaches the given sub commands.
func (c *Cli) AddCommands(cmds []CommandFunc) {
	for _, cmd := range cmds {
		c.rootCmd.AddCommand(cmd(c))
	}
}

// SetArgs overrides os.Args, for tests.
func (c *Cli) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output, for tests.
func (c *Cli) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// Run executes the command line and returns its error.
func (c *Cli) Run() error {
	return c.rootCmd.Execute()
}

// Execute runs the command line and exits with a non-zero code on failure.
func (c *Cli) Execute() {
	if err := c.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errProofRejected) {
			os.Exit(1)
		}
		os.Exit(-1)
	}
}

// LookupEngine resolves the configured engine.
func (c *Cli) LookupEngine() (group.Engine, error) {
	return suite.Lookup(c.RootOptions.Engine)
}

// Scheme builds a scheme from the configured engine and hash.
func (c *Cli) Scheme() (*chaumpedersen.Scheme, error) {
	engine, err := c.LookupEngine()
	if err != nil {
		return nil, err
	}
	h, err := chaumpedersen.HashByName(c.Hash)
	if err != nil {
		return nil, err
	}
	return chaumpedersen.NewScheme(engine, chaumpedersen.WithHash(h))
}

// Logger returns the cli logger.
func (c *Cli) Logger() log.Logger {
	return c.log
}
