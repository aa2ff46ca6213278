package service

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tonkit/tonkit/common/logging"
)

var execLogger = logging.NewLogger("executor")

// Executor runs external tools such as the node launcher and the compiler.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type CommandExecutor struct {
	// Dir is the working directory of the commands, the current one if empty.
	Dir string
}

var _ Executor = (*CommandExecutor)(nil)

func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

func (e *CommandExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	execLogger.Debug().Str(logging.FieldCommand, name).Strs("args", args).Msg("Running external command")
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
