package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"wiremeta/internal/config"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	dir     string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New(), dir: "."}

	rootCmd := &cobra.Command{
		Use:   "wiremeta",
		Short: "Inspect the serialization metadata of Go types",
		Long: `wiremeta resolves how the types of a Go package are serialized: the
wire name of every member and the constructor a decoder uses, with the
members bound to its parameters.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./wiremeta.yaml)")
	flags.StringVarP(&a.dir, "dir", "C", ".", "directory packages are resolved from")
	flags.String("naming", "original", "naming policy: original, lower, camel, snake or kebab")
	flags.Bool("allow-private", false, "let unexported accessors read and write members")
	flags.String("overlay", "", "YAML overlay applied before resolution")
	flags.StringP("format", "f", config.FormatText, "output format: text, json, yaml or dump")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolP("verbose", "v", false, "log analysis and resolution steps")

	for key, name := range map[string]string{
		config.KeyNaming:       "naming",
		config.KeyAllowPrivate: "allow-private",
		config.KeyOverlay:      "overlay",
		config.KeyFormat:       "format",
		config.KeyNoColor:      "no-color",
		config.KeyVerbose:      "verbose",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(a.newInspectCommand())
	rootCmd.AddCommand(a.newCheckCommand())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile, a.dir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.NoColor {
		color.NoColor = true
	}

	a.logger = zap.NewNop()
	if cfg.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		a.logger = logger
	}

	return nil
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "wiremeta version: ")
			fmt.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}

	return nil
}
