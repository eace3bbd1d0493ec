package main

import (
	"fmt"
	"io"

	"github.com/HicaroD/spi/internal/ast"
	"github.com/HicaroD/spi/internal/config"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/interp"
	"github.com/HicaroD/spi/internal/lexer"
	"github.com/HicaroD/spi/internal/lexer/token"
	"github.com/HicaroD/spi/internal/parser"
	"github.com/HicaroD/spi/internal/sema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var RunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a program and print its final bindings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		collector := diagnostics.New()
		program, err := parser.ParseFile(args[0], collector)
		if err != nil {
			return err
		}
		bindings, err := evaluate(program, collector, cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return writeBindings(cmd.OutOrStdout(), bindings, cfg.Format)
	},
}

var ResolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Print the program annotated with nesting levels and types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		collector := diagnostics.New()
		program, err := parser.ParseFile(args[0], collector)
		if err != nil {
			return err
		}
		result, err := sema.New(collector, newLogger(cmd.ErrOrStderr(), cfg.LogScope)).Resolve(program)
		if err != nil {
			return err
		}
		return writeResolution(cmd.OutOrStdout(), result, cfg.Format)
	},
}

var TokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token stream of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		lex, err := lexer.NewFromFilePath(args[0], nil)
		if err != nil {
			return err
		}
		tokens, err := lex.Tokenize()
		if err != nil {
			return err
		}
		return writeTokens(cmd.OutOrStdout(), tokens, cfg.Format)
	},
}

// evaluate resolves program and runs it with the loggers cfg asks for.
func evaluate(
	program *ast.Program,
	collector *diagnostics.Collector,
	cfg *config.Config,
	logOut io.Writer,
) (interp.Bindings, error) {
	result, err := sema.New(collector, newLogger(logOut, cfg.LogScope)).Resolve(program)
	if err != nil {
		return nil, err
	}
	return interp.New(collector, newLogger(logOut, cfg.LogStack)).Run(program, result)
}

func writeBindings(w io.Writer, bindings interp.Bindings, format config.Format) error {
	if format == config.YAML {
		return writeYAML(w, bindings)
	}
	_, err := io.WriteString(w, bindings.String())
	return err
}

type symbolEntry struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Type  string `yaml:"type,omitempty"`
	Level int    `yaml:"level"`
}

type resolution struct {
	Program string        `yaml:"program"`
	Globals []symbolEntry `yaml:"globals"`
}

func writeResolution(w io.Writer, result *sema.Result, format config.Format) error {
	if format != config.YAML {
		_, err := io.WriteString(w, result.Output)
		return err
	}

	out := resolution{Program: result.Output}
	for _, symbol := range result.Global.Symbols() {
		out.Globals = append(out.Globals, symbolEntry{
			Name:  symbol.Name,
			Kind:  symbol.Kind.String(),
			Type:  symbol.TypeName(),
			Level: symbol.Level,
		})
	}
	return writeYAML(w, out)
}

type tokenEntry struct {
	Kind   string `yaml:"kind"`
	Text   string `yaml:"text,omitempty"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

func writeTokens(w io.Writer, tokens []*token.Token, format config.Format) error {
	if format == config.YAML {
		entries := make([]tokenEntry, len(tokens))
		for i, tok := range tokens {
			entries[i] = tokenEntry{
				Kind:   tok.Kind.String(),
				Text:   tok.Text(),
				Line:   tok.Pos.Line,
				Column: tok.Pos.Column,
			}
		}
		return writeYAML(w, entries)
	}

	for _, tok := range tokens {
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
