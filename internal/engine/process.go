package engine

import (
	"io"
	"os/exec"
)

// Process is a running engine subprocess.
type Process interface {
	Stdin() io.Writer
	Stdout() io.Reader
	Kill() error
	// Wait reaps the process. It is called only after Stdout has been drained.
	Wait() error
}

// Launcher starts one engine process per call.
type Launcher interface {
	Launch() (Process, error)
}

// ExecLauncher starts Path as an operating system process.
type ExecLauncher struct {
	Path   string
	Args   []string
	Env    []string
	Stderr io.Writer
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	exited chan struct{}
}

func (l ExecLauncher) Launch() (Process, error) {
	cmd := exec.Command(l.Path, l.Args...)
	if l.Env != nil {
		cmd.Env = l.Env
	}
	cmd.Stderr = l.Stderr

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{
		cmd:    cmd,
		stdin:  stdinPipe,
		stdout: stdoutPipe,
		exited: make(chan struct{}),
	}, nil
}

func (p *execProcess) Stdin() io.Writer  { return p.stdin }
func (p *execProcess) Stdout() io.Reader { return p.stdout }

func (p *execProcess) Kill() error {
	_ = p.stdin.Close()
	return p.cmd.Process.Kill()
}

func (p *execProcess) Wait() error {
	defer close(p.exited)
	return p.cmd.Wait()
}
