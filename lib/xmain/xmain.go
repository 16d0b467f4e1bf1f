// Package xmain is the entry stub shared by commands: it wires the process environment,
// the command logger and flag parsing into a State, runs the command and turns its
// error into an exit code.
package xmain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

type RunFunc func(context.Context, *State) error

// Main runs run with a State built from the process and exits non-zero if it fails.
func Main(run RunFunc) {
	var name string
	var args []string
	if len(os.Args) > 0 {
		name = os.Args[0]
		args = os.Args[1:]
	}

	ms := NewState(name, args, os.Stdin, os.Stdout, os.Stderr, xos.NewEnv(os.Environ()))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	err := ms.Main(context.Background(), sigs, run)
	if err != nil {
		os.Exit(ms.report(err))
	}
}

type State struct {
	Name string
	PWD  string

	Stdin  io.Reader
	Stdout io.WriteCloser
	Stderr io.WriteCloser

	Log  *cmdlog.Logger
	Env  *xos.Env
	Opts *Opts
}

func NewState(name string, args []string, stdin io.Reader, stdout, stderr io.WriteCloser, env *xos.Env) *State {
	ms := &State{
		Name:   name,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Env:    env,
	}
	ms.PWD, _ = os.Getwd()
	ms.Log = cmdlog.Log(env, stderr)
	ms.Opts = NewOpts(env, args)
	return ms
}

// Main runs run until it returns or a signal arrives. After a signal run has one minute
// to return once its context is canceled.
func (ms *State) Main(ctx context.Context, sigs <-chan os.Signal, run RunFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- run(ctx, ms)
	}()

	select {
	case err := <-done:
		return err
	case sig := <-sigs:
		ms.Log.Warn.Printf("received signal %v: shutting down...", sig)
		cancel()
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("failed to shutdown: %w", err)
			}
			if sig == syscall.SIGTERM {
				return nil
			}
			return ExitError{Code: 1}
		case <-time.After(time.Minute):
			return ExitErrorf(1, "took longer than 1 minute to shutdown: exiting forcefully")
		}
	}
}

// report logs err and returns the exit code it maps to.
func (ms *State) report(err error) int {
	code := 1
	var msg string

	var eerr ExitError
	var uerr UsageError
	switch {
	case errors.As(err, &eerr):
		code = eerr.Code
		msg = eerr.Message
	case errors.As(err, &uerr):
		msg = err.Error() + "\nRun with --help to see usage."
	default:
		msg = err.Error()
	}
	if msg != "" {
		ms.Log.Error.Print(msg)
	}
	return code
}

// AbsPath resolves fp against the working directory of the command. - is kept as is.
func (ms *State) AbsPath(fp string) string {
	if fp == "-" || filepath.IsAbs(fp) {
		return fp
	}
	return filepath.Join(ms.PWD, fp)
}

// HumanPath shortens fp to a path relative to the working directory when it is inside it.
func (ms *State) HumanPath(fp string) string {
	if fp == "-" || ms.PWD == "" {
		return fp
	}
	rel, err := filepath.Rel(ms.PWD, fp)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fp
	}
	return rel
}

func (ms *State) ReadPath(fp string) ([]byte, error) {
	if fp == "-" {
		return io.ReadAll(ms.Stdin)
	}
	return os.ReadFile(fp)
}

// WritePath writes p to fp. - writes to Stdout without closing it.
func (ms *State) WritePath(fp string, p []byte) error {
	if fp == "-" {
		_, err := ms.Stdout.Write(p)
		return err
	}
	err := os.MkdirAll(filepath.Dir(fp), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(fp, p, 0644)
}

type ExitError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ExitErrorf(code int, msg string, v ...interface{}) ExitError {
	return ExitError{
		Code:    code,
		Message: fmt.Sprintf(msg, v...),
	}
}

func (ee ExitError) Error() string {
	s := fmt.Sprintf("exiting with code %d", ee.Code)
	if ee.Message != "" {
		s += ": " + ee.Message
	}
	return s
}

// UsageError is reported with a hint to run --help.
type UsageError struct {
	Message string `json:"message"`
}

func UsageErrorf(msg string, v ...interface{}) UsageError {
	return UsageError{
		Message: fmt.Sprintf(msg, v...),
	}
}

func (ue UsageError) Error() string {
	return fmt.Sprintf("bad usage: %s", ue.Message)
}
