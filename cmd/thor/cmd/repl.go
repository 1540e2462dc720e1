package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/thorscript/thor/internal/builtin"
	"github.com/thorscript/thor/internal/interp"
	"github.com/thorscript/thor/internal/value"
	"github.com/thorscript/thor/pkg/thor"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive thor session",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var (
	promptColor = color.New(color.FgCyan)
	resultColor = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed)
)

func runRepl(_ *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	rl, err := readline.New(promptColor.Sprint("thor> "))
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), "thor REPL — type .exit or Ctrl+D to quit")

	in := interp.New(wd)
	env := in.NewGlobalEnv()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			return nil
		}
		rl.SaveHistory(line)

		evalRepl(rl.Stdout(), line, in, env)
	}
}

// evalRepl runs one REPL line and prints its result. A bare expression
// typed without `return` is echoed via stringify rather than discarded, so
// the REPL feels usable for quick checks (`1 + 1` shows `2`, matching how
// most scripting REPLs behave even though `Run`/`RunFile` only ever surface
// a top-level `return` value).
func evalRepl(w io.Writer, line string, in *interp.Interp, env *value.Environment) {
	res, err := thor.RunIn(wrapAsReturn(line), in, env)
	if err != nil {
		fmt.Fprintln(w, errColor.Sprint(thor.FormatError(err, line)))
		return
	}
	fmt.Fprintln(w, resultColor.Sprint(builtin.Stringify(res.Value)))
}

// wrapAsReturn lets the REPL accept a bare expression (no trailing `;` or
// `return`) as a convenience, falling back to running the line unmodified
// when it already looks like a full statement.
func wrapAsReturn(line string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(line), ";")
	if _, err := thor.Parse("return " + trimmed + ";"); err == nil {
		return "return " + trimmed + ";"
	}
	return line
}
