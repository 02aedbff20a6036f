package evaluator

import (
	"context"
	"time"

	"go.starlark.net/starlark"
)

// Sandbox budget for a single submission. Starlark is hermetic (no file,
// network, or process access), so the step budget and wall-clock deadline
// are the remaining resource bounds.
const (
	maxExecutionSteps = 500_000
	executionTimeout  = 2 * time.Second
)

// codeScopesMatch executes the reference and the submission in two
// independent scopes and compares the resulting variable bindings. Any
// execution failure (syntax error, runtime error, step budget, deadline)
// in either scope yields false.
func codeScopesMatch(ctx context.Context, referenceSrc, submittedSrc string) bool {
	want, err := execScope(ctx, "reference", referenceSrc)
	if err != nil {
		return false
	}
	got, err := execScope(ctx, "submission", submittedSrc)
	if err != nil {
		return false
	}
	return sameBindings(want, got)
}

func execScope(ctx context.Context, name, src string) (starlark.StringDict, error) {
	ctx, cancel := context.WithTimeout(ctx, executionTimeout)
	defer cancel()

	thread := &starlark.Thread{Name: name}
	thread.SetMaxExecutionSteps(maxExecutionSteps)
	// print is part of the allowed surface but its output is irrelevant to
	// the binding comparison.
	thread.Print = func(_ *starlark.Thread, _ string) {}

	watchdogDone := make(chan struct{})
	defer close(watchdogDone)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel("execution deadline exceeded")
		case <-watchdogDone:
		}
	}()

	return starlark.ExecFile(thread, name+".star", src, nil)
}

// sameBindings reports structural equality of two global scopes. Callables
// are ignored: a submission may define helper functions whose identity has
// no bearing on the variable state the task asks for.
func sameBindings(want, got starlark.StringDict) bool {
	wantVars := dataBindings(want)
	gotVars := dataBindings(got)
	if len(wantVars) != len(gotVars) {
		return false
	}
	for name, w := range wantVars {
		g, ok := gotVars[name]
		if !ok {
			return false
		}
		eq, err := starlark.Equal(w, g)
		if err != nil || !eq {
			return false
		}
	}
	return true
}

func dataBindings(globals starlark.StringDict) map[string]starlark.Value {
	vars := make(map[string]starlark.Value, len(globals))
	for name, v := range globals {
		if _, callable := v.(starlark.Callable); callable {
			continue
		}
		vars[name] = v
	}
	return vars
}
