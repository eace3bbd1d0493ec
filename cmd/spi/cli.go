package main

import (
	"io"
	"log"

	"github.com/HicaroD/spi/internal/config"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	logScope   bool
	logStack   bool
	format     string
}

var opts flags

var rootCmd = &cobra.Command{
	Use:   "spi",
	Short: "spi - a small Pascal interpreter",
	Long: `spi lexes, parses, resolves and interprets programs written in a small
subset of Pascal: integer and real variables, nested procedures with value
parameters, and arithmetic expressions.

Commands:
  run      Run a program and print the final values of its variables
  resolve  Print the program annotated with nesting levels and types
  tokens   Print the token stream of a program
  repl     Read programs interactively and run them
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file (default $XDG_CONFIG_HOME/spi/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.logScope, "scope", false, "log scope entry, exit and symbol tables while resolving")
	rootCmd.PersistentFlags().BoolVar(&opts.logStack, "stack", false, "log the call stack while running")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "output format: text or yaml")

	rootCmd.AddCommand(RunCmd, ResolveCmd, TokensCmd, ReplCmd)
}

// loadConfig reads the config file and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("scope") {
		cfg.LogScope = opts.logScope
	}
	if fs.Changed("stack") {
		cfg.LogStack = opts.logStack
	}
	if fs.Changed("format") {
		format, err := config.ParseFormat(opts.format)
		if err != nil {
			return nil, err
		}
		cfg.Format = format
	}
	return cfg, nil
}

func newLogger(w io.Writer, enabled bool) *log.Logger {
	if !enabled {
		return nil
	}
	return log.New(w, "", 0)
}
