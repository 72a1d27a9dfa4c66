// Package testutil holds fakes shared by the package tests.
package testutil

import (
	"context"
	"strings"
	"time"

	"revisor/internal/sysexec"
)

// Call records one invocation on a FakeRunner.
type Call struct {
	Kind  string // "run", "pipe" or "start"
	Name  string
	Args  []string
	Stdin string
}

// Line returns the command line of the call.
func (c Call) Line() string {
	return Key(c.Name, c.Args...)
}

// FakeRunner is a scripted sysexec.Runner.
type FakeRunner struct {
	// Tools lists the commands LookPath should find.
	Tools map[string]bool
	// Outputs maps a command line (see Key) to the result Run returns.
	Outputs map[string]sysexec.Result
	// Errors maps a command line to the error Run, Pipe or Start returns.
	Errors map[string]error
	// Hook, when set, sees every call as it is recorded.
	Hook func(Call)

	Calls []Call
}

// NewFakeRunner returns a FakeRunner that finds the given tools.
func NewFakeRunner(tools ...string) *FakeRunner {
	f := &FakeRunner{
		Tools:   map[string]bool{},
		Outputs: map[string]sysexec.Result{},
		Errors:  map[string]error{},
	}
	for _, t := range tools {
		f.Tools[t] = true
	}
	return f
}

// Key joins a command and its arguments with single spaces.
func Key(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// Stdout scripts the output of a command line.
func (f *FakeRunner) Stdout(line, stdout string) *FakeRunner {
	f.Outputs[line] = sysexec.Result{Stdout: stdout}
	return f
}

// Fail scripts an error for a command line.
func (f *FakeRunner) Fail(line string, err error) *FakeRunner {
	f.Errors[line] = err
	return f
}

// Lines returns the command lines of calls of the given kind, in order.
func (f *FakeRunner) Lines(kind string) []string {
	var out []string
	for _, c := range f.Calls {
		if c.Kind == kind {
			out = append(out, c.Line())
		}
	}
	return out
}

func (f *FakeRunner) record(c Call) {
	f.Calls = append(f.Calls, c)
	if f.Hook != nil {
		f.Hook(c)
	}
}

func (f *FakeRunner) LookPath(name string) (string, bool) {
	if f.Tools[name] {
		return "/usr/bin/" + name, true
	}
	return "", false
}

func (f *FakeRunner) Run(ctx context.Context, name string, args []string, stdin string, timeout time.Duration) (sysexec.Result, error) {
	f.record(Call{Kind: "run", Name: name, Args: args, Stdin: stdin})
	key := Key(name, args...)
	if err := f.Errors[key]; err != nil {
		return sysexec.Result{ExitCode: 1}, err
	}
	return f.Outputs[key], nil
}

func (f *FakeRunner) Pipe(ctx context.Context, name string, args []string, stdin string, timeout time.Duration) error {
	f.record(Call{Kind: "pipe", Name: name, Args: args, Stdin: stdin})
	return f.Errors[Key(name, args...)]
}

func (f *FakeRunner) Start(name string, args ...string) error {
	f.record(Call{Kind: "start", Name: name, Args: args})
	return f.Errors[Key(name, args...)]
}

// FakeFallback is a scripted clipboard.Fallback.
type FakeFallback struct {
	Unsupported bool
	Text        string
	Err         error
	Written     []string
}

func (f *FakeFallback) Supported() bool { return !f.Unsupported }

func (f *FakeFallback) ReadAll() (string, error) { return f.Text, f.Err }

func (f *FakeFallback) WriteAll(text string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Written = append(f.Written, text)
	return nil
}
