// Command rauzy explores Rauzy diagrams, covers and cylinder
// decompositions of interval exchanges.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/internal/cli"
	"github.com/matzehuels/rauzy/pkg/errors"
)

// Exit codes.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, newRoot())
	stop()
	os.Exit(report(os.Stderr, err))
}

// newRoot builds the command tree with --verbose raising the log level
// before any command runs.
func newRoot() *cobra.Command {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig == nil {
			return nil
		}
		return loadConfig(cmd, args)
	}
	return root
}

func execute(ctx context.Context, root *cobra.Command) error {
	return root.ExecuteContext(ctx)
}

// report prints err and returns the process exit code for it.
func report(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	}
	code := errors.GetCode(err)
	if code == "" {
		fmt.Fprintln(w, "Error:", err)
		return exitFailure
	}
	fmt.Fprintf(w, "Error: %s (%s)\n", errors.UserMessage(err), code)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeMalformedPermutation,
		errors.ErrCodeInvalidLengths, errors.ErrCodeInvalidCover:
		return exitUsage
	}
	return exitFailure
}
