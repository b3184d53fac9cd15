package gif

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// execResult holds the outcome of a single external tool invocation.
type execResult struct {
	stderr string
	err    error
}

// run executes an external tool with the given arguments. Stderr is always
// captured for error classification; when verbose is set it is also tee'd
// to os.Stderr in real time.
func run(ctx context.Context, verbose bool, bin string, args []string) execResult {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return execResult{
		stderr: stderrBuf.String(),
		err:    err,
	}
}
