package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// ExecSource runs a command and reads its stdout line by line.
// The command's stderr is passed through unchanged.
type ExecSource struct {
	lineReader
	command string
	cmd     *exec.Cmd
	stdout  io.ReadCloser

	wait    sync.Once
	waitErr error
}

// StartExec starts command with args. stderr receives the child's stderr (os.Stderr if nil).
func StartExec(ctx context.Context, command string, args []string, stderr io.Writer) (*ExecSource, error) {
	if stderr == nil {
		stderr = os.Stderr
	}
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = stderr

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start command: %w", err)
	}

	return &ExecSource{
		lineReader: newLineReader(stdoutPipe),
		command:    command,
		cmd:        cmd,
		stdout:     stdoutPipe,
	}, nil
}

// Name returns the source identifier.
func (s *ExecSource) Name() string {
	return fmt.Sprintf("exec:%s", s.command)
}

// ReadLine reads the next stdout line and reaps the child at end of stream.
func (s *ExecSource) ReadLine() (int, string, error) {
	n, text, err := s.lineReader.ReadLine()
	if err == nil && n == 0 {
		s.reap()
	}
	return n, text, err
}

func (s *ExecSource) reap() {
	s.wait.Do(func() { s.waitErr = s.cmd.Wait() })
}

// ExitErr returns the command's exit error once its output has been fully read.
func (s *ExecSource) ExitErr() error {
	s.reap()
	return s.waitErr
}

// Close kills the child if it is still running and reaps it.
func (s *ExecSource) Close() error {
	// Kill fails harmlessly once the child has been reaped.
	_ = s.cmd.Process.Kill()
	s.reap()
	return nil
}
