package utils

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/nodewee/scan-to-text/pkg/logger"
)

// RunCommand runs an external binary and returns its stdout.
// Failures carry the trimmed stderr of the process.
func RunCommand(ctx context.Context, log *logger.Logger, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if log != nil {
		log.Debug("Running command: %s", cmd.String())
	}
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, eris.Wrapf(ctxErr, "%s interrupted", bin)
		}
		return nil, eris.Wrapf(err, "%s failed: %s", bin, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
