package runenv

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

func buildCmdEnv(envMap map[string]string) []string {
	cmdEnv := os.Environ()
	for k, v := range envMap {
		cmdEnv = append(cmdEnv, fmt.Sprintf("%s=%s", k, v))
	}
	return cmdEnv
}

func exitCodeFromError(runErr error) (int, error) {
	if runErr == nil {
		return 0, nil
	}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return exitErr.ExitCode(), runErr
	}
	return -1, fmt.Errorf("failed to run command: %w", runErr)
}

// RunWithEnv runs command with the variables injected on top of the current
// environment, wired to the caller's stdio. Returns the child's exit code.
func RunWithEnv(envMap map[string]string, workdir, command string, args []string) (int, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = buildCmdEnv(envMap)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if workdir != "" {
		cmd.Dir = workdir
	}
	// Do not set Setpgid: child stays in our process group so Ctrl+C kills it too.
	return exitCodeFromError(cmd.Run())
}

// RunWithEnvRedacted is RunWithEnv with every injected value replaced by
// [REDACTED:KEY] in the child's output.
func RunWithEnvRedacted(envMap map[string]string, workdir, command string, args []string) (int, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = buildCmdEnv(envMap)
	cmd.Stdin = os.Stdin
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if workdir != "" {
		cmd.Dir = workdir
	}

	runErr := cmd.Run()
	_, _ = os.Stdout.Write(redactOutput([]byte(stdout.String()), envMap))
	_, _ = os.Stderr.Write(redactOutput([]byte(stderr.String()), envMap))

	return exitCodeFromError(runErr)
}

func redactOutput(data []byte, envMap map[string]string) []byte {
	result := string(data)
	for k, v := range envMap {
		if v != "" {
			result = strings.ReplaceAll(result, v, fmt.Sprintf("[REDACTED:%s]", k))
		}
	}
	return []byte(result)
}

// ProcessRunner manages a restartable child process for watch mode.
type ProcessRunner struct {
	Command string
	Args    []string
	Env     map[string]string
	Workdir string
	Redact  bool

	cmd       *exec.Cmd
	redactors []*streamRedactor
}

type streamRedactor struct {
	envMap map[string]string
	dst    *os.File
	pipeR  *os.File
}

func (sr *streamRedactor) run() {
	buf := make([]byte, 4096)
	for {
		n, err := sr.pipeR.Read(buf)
		if n > 0 {
			sr.dst.Write(redactOutput(buf[:n], sr.envMap))
		}
		if err != nil {
			return
		}
	}
}

func (r *ProcessRunner) Start() error {
	r.cmd = exec.Command(r.Command, r.Args...)
	r.cmd.Env = buildCmdEnv(r.Env)
	r.cmd.Stdin = os.Stdin
	if r.Workdir != "" {
		r.cmd.Dir = r.Workdir
	}
	// Own process group so Stop can take the whole tree down on restart.
	r.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if r.Redact {
		stdoutR, stdoutW, _ := os.Pipe()
		stderrR, stderrW, _ := os.Pipe()
		r.cmd.Stdout = stdoutW
		r.cmd.Stderr = stderrW

		r.redactors = []*streamRedactor{
			{envMap: r.Env, dst: os.Stdout, pipeR: stdoutR},
			{envMap: r.Env, dst: os.Stderr, pipeR: stderrR},
		}
		for _, sr := range r.redactors {
			go sr.run()
		}
	} else {
		r.cmd.Stdout = os.Stdout
		r.cmd.Stderr = os.Stderr
	}

	return r.cmd.Start()
}

// killFunc is injectable for tests; production uses syscall.Kill.
var killFunc = func(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

func (r *ProcessRunner) Stop() error {
	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(r.cmd.Process.Pid)
	if err != nil {
		return r.cmd.Process.Kill()
	}
	if err := killFunc(-pgid, syscall.SIGTERM); err != nil {
		return r.cmd.Process.Kill()
	}

	done := make(chan struct{})
	go func() {
		r.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = killFunc(-pgid, syscall.SIGKILL)
		<-done
	}
	r.cmd = nil
	return nil
}

func (r *ProcessRunner) Wait() error {
	if r.cmd == nil {
		return nil
	}
	return r.cmd.Wait()
}

func (r *ProcessRunner) Running() bool {
	return r.cmd != nil && r.cmd.Process != nil && r.cmd.ProcessState == nil
}

func (r *ProcessRunner) ExitCode() int {
	if r.cmd == nil || r.cmd.ProcessState == nil {
		return -1
	}
	return r.cmd.ProcessState.ExitCode()
}
