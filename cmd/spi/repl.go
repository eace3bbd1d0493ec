package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HicaroD/spi/internal/config"
	"github.com/HicaroD/spi/internal/diagnostics"
	"github.com/HicaroD/spi/internal/lexer"
	"github.com/HicaroD/spi/internal/parser"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	promptMain = "spi> "
	promptCont = "...> "
	replFile   = "<repl>"
)

const banner = `spi repl. Enter a whole program, e.g.
  program P; var x : integer; begin x := 3 + 5 * 2 end.
Type :quit to exit.`

var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read programs interactively and run them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return repl(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
	},
}

func repl(out, errOut io.Writer, cfg *config.Config) error {
	fmt.Fprintln(out, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath, histErr := config.HistoryPath()
	if histErr == nil {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		src, ok := readEntry(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			default:
				fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if _, err := runEntry(src, cfg, out, errOut); err != nil {
			return err
		}
	}
}

// runEntry parses and evaluates one REPL entry. Diagnostics go to errOut and
// stay in the returned collector; the error is reserved for failed writes.
func runEntry(src string, cfg *config.Config, out, errOut io.Writer) (*diagnostics.Collector, error) {
	collector := diagnostics.New()
	program, err := parser.New(lexer.New(replFile, []byte(src), collector), collector).Parse()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return collector, nil
	}
	bindings, err := evaluate(program, collector, cfg, errOut)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return collector, nil
	}
	return collector, writeBindings(out, bindings, cfg.Format)
}

// readEntry keeps reading lines until the buffered text parses or
// fails for a reason other than running out of input.
func readEntry(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(src) == "" {
			return src, true
		}
		if _, perr := parser.Parse(replFile, []byte(src)); perr == nil || !parser.IsIncomplete(perr) {
			return src, true
		}
	}
}
