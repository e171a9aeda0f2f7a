// Command add-runner provisions a self-hosted CI runner on the current host:
// it downloads the pinned runner archive for the chosen platform, verifies
// its SHA-256 digest, unpacks it, registers it and writes a service definition.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/ui"
)

// Set by the release build with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
)

// exitError carries an exit code without a message (self-test mismatches are
// already reported line by line)
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and maps the outcome to a process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	printError(ui.NewPrinter(stderr), err)
	return 1
}

func printError(p *ui.Printer, err error) {
	pe, ok := derrors.As(err)
	if !ok {
		p.Errorf("%v", err)
		return
	}
	p.Errorf("%v", pe)
	switch pe.Code {
	case derrors.ErrIntegrity:
		p.Infof("The archive was not installed. Re-run with --test to check the catalog.")
	case derrors.ErrUnknownPlatform:
		if runners, ok := pe.Detail("runners").([]string); ok && len(runners) > 0 {
			p.Infof("Re-run with --runner %s", runners[0])
		}
	}
}
