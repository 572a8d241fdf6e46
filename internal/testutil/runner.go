package testutil

import (
	"context"
	"sync"

	"github.com/vk/droidkit/internal/tools"
)

// Call records one invocation a FakeRunner received.
type Call struct {
	Name string
	Args []string
}

// Response scripts what a FakeRunner returns for a command name.
type Response struct {
	Result tools.Result
	Err    error
}

// FakeRunner is a scripted tools.CommandRunner. Unscripted commands succeed
// with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []Call
	Responses map[string]Response
}

// Run records the call and returns the scripted response for the command name.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (tools.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: args})
	f.mu.Unlock()

	if resp, ok := f.Responses[name]; ok {
		return resp.Result, resp.Err
	}
	return tools.Result{}, nil
}

// Calls returns a copy of the recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded invocations of one command.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
