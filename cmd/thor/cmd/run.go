package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/thorscript/thor/pkg/thor"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a thor script file or an inline expression",
	Long: `Execute a thor program from a file or inline code.

Examples:
  thor run script.thor
  thor run script        # .thor is appended automatically
  thor run -e "return 1 + 1;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
}

func runScript(_ *cobra.Command, args []string) error {
	if evalExpr != "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		return execute(evalExpr, wd)
	}

	if len(args) != 1 {
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "running %s\n", args[0])
	}
	if _, source, err := thor.RunFile(args[0]); err != nil {
		printErr(err, source)
		return ErrAlreadyReported
	}
	return nil
}

func execute(source, moduleRoot string) error {
	if _, err := thor.Run(source, moduleRoot); err != nil {
		printErr(err, source)
		return ErrAlreadyReported
	}
	return nil
}

// ErrAlreadyReported signals a command failure whose message has already
// been written to stderr by printErr, so main shouldn't print it again.
var ErrAlreadyReported = fmt.Errorf("thor: command failed")

func printErr(err error, source string) {
	fmt.Fprintln(os.Stderr, color.RedString(thor.FormatError(err, source)))
}
