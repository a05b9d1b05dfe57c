// Package cli provides the command-line interface for contrastcheck.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/contrastcheck/internal/config"
	"github.com/jmylchreest/contrastcheck/internal/logging"
	"github.com/jmylchreest/contrastcheck/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// globals holds state shared by every command once the root pre-run has loaded it.
type globals struct {
	cfgFile string
	verbose bool
	quiet   bool
	strict  bool

	v      *viper.Viper
	cfg    *config.Config
	logger hclog.Logger
	closer io.Closer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "contrastcheck",
		Short: "Check text contrast in design documents against WCAG",
		Long: `contrastcheck finds every visible text layer in a design document, works out the
colours a reader actually sees (fills, transparency, gradients and inherited
backgrounds) and reports whether each one meets the WCAG AA and AAA contrast
thresholds.

Documents are JSON or YAML exports, optionally xz-compressed.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.closer != nil {
				return g.closer.Close()
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.cfgFile, "config", "", "config file (default ./contrastcheck.yaml or $XDG_CONFIG_HOME/contrastcheck/contrastcheck.yaml)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "suppress non-error output")
	pf.String("log-file", "", "also write JSON logs to this file, rotated by size")
	pf.BoolVar(&g.strict, "strict", false, "apply AA 4.5:1 and AAA 7:1 to all text regardless of size")

	rootCmd.SetGlobalNormalizationFunc(underscoreToDash)
	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newHighlightCmd(g))
	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))

	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads configuration and sets up logging.
func (g *globals) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	v, err := config.NewViper(g.cfgFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("log.file", cmd.Root().PersistentFlags().Lookup("log-file")); err != nil {
		return fmt.Errorf("failed to bind --log-file: %w", err)
	}
	if g.strict {
		v.Set("policy", "strict")
	}
	switch {
	case g.verbose:
		v.Set("log.level", "debug")
	case g.quiet:
		v.Set("log.level", "error")
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	g.v, g.cfg, g.logger, g.closer = v, cfg, logger, closer
	if source := v.ConfigFileUsed(); source != "" {
		logger.Debug("loaded config", "file", source)
	}
	return nil
}

// underscoreToDash lets flags be spelt the way their config keys are, e.g. --log_file.
func underscoreToDash(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
