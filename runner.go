package swigload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	debugSeparator = "-----------------------------------------------"
	// waitDelay bounds how long Wait blocks on pipes held open by orphaned children.
	waitDelay = 2 * time.Second
)

// Runner executes external tools and classifies their failures.
type Runner struct {
	Debug   bool
	Out     io.Writer // debug console, stdout when nil
	Policy  FailurePolicy
	Timeout time.Duration
	Logger  *log.Logger
}

func newRunner(o Options) *Runner {
	return &Runner{
		Debug:   o.Debug,
		Out:     o.Out,
		Policy:  o.Policy,
		Timeout: o.Timeout,
		Logger:  o.Logger,
	}
}

// Run executes command inside dir and returns both streams as text.
//
// Under FailOnStderr any stderr output is a *CommandError even when the
// process exits zero.
func (r *Runner) Run(ctx context.Context, dir string, command []string) (stdout, stderr string, err error) {
	if len(command) == 0 {
		return "", "", fmt.Errorf("%w: empty command", ErrCommandFailed)
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	var ob, eb bytes.Buffer
	cmd.Stdout = &ob
	cmd.Stderr = &eb
	if r.Logger != nil {
		r.Logger.Debug("execute", "cmd", command[0], "args", command[1:], "dir", dir)
	}
	runErr := cmd.Run()
	stdout, stderr = decode(ob.Bytes()), decode(eb.Bytes())
	if r.Debug {
		r.dump(command, stdout, stderr)
	}
	exitCode := 0
	if runErr != nil {
		exitCode = -1
		var ee *exec.ExitError
		if errors.As(runErr, &ee) {
			exitCode = ee.ExitCode()
		}
	}
	fail := func() error {
		return &CommandError{
			Name:     command[0],
			Args:     command,
			Stdout:   stdout,
			Stderr:   stderr,
			ExitCode: exitCode,
			Err:      runErr,
		}
	}
	switch r.Policy {
	case FailOnExitStatus:
		if runErr != nil {
			return stdout, stderr, fail()
		}
		if stderr != "" && r.Logger != nil {
			r.Logger.Warn("diagnostics", "cmd", command[0], "stderr", stderr)
		}
	default:
		if stderr != "" {
			return stdout, stderr, fail()
		}
		// a process that never started or was killed leaves stderr empty
		var ee *exec.ExitError
		if runErr != nil && (!errors.As(runErr, &ee) || ctx.Err() != nil) {
			return stdout, stderr, fail()
		}
	}
	return
}

func (r *Runner) dump(command []string, stdout, stderr string) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, "Command :", strings.Join(command, " "))
	fmt.Fprintln(out, "Stdout  :", stdout)
	fmt.Fprintln(out, "Stderr  :", stderr)
	fmt.Fprintln(out, debugSeparator)
}

// decode returns b as UTF-8 text, replacing invalid sequences.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
