package sampler

import (
	"io"
	"os/exec"
)

// Workload is the process being benchmarked.
type Workload interface {
	Start() error
	Running() bool
	Wait() error
}

// ExecWorkload runs a command fed from a bounded input stream. Stdin is
// closed once the stream is exhausted. Stdout is discarded unless a writer
// is given.
type ExecWorkload struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

func NewExecWorkload(cmd *exec.Cmd, stdin io.Reader, stdout io.Writer) *ExecWorkload {
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	return &ExecWorkload{cmd: cmd, done: make(chan struct{})}
}

func (w *ExecWorkload) Start() error {
	if err := w.cmd.Start(); err != nil {
		return err
	}
	go func() {
		w.err = w.cmd.Wait()
		close(w.done)
	}()
	return nil
}

func (w *ExecWorkload) Running() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

func (w *ExecWorkload) Wait() error {
	<-w.done
	return w.err
}
