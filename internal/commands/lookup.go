package commands

import (
	"context"
	"fmt"
	"io"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/store"
)

// parseArgs parses the task reference in args and reports an error, without
// touching the backend. Commands taking nothing after the reference pass
// allowRest=false.
func parseArgs(args []string, allowRest bool, errOut io.Writer) (ref TaskRef, rest []string, ok bool) {
	ref, rest, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return TaskRef{}, nil, false
	}
	if !allowRest && len(rest) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", rest[0])
		return TaskRef{}, nil, false
	}
	return ref, rest, true
}

// lookupTask mounts the store and resolves ref against the fresh collection.
// On failure it prints the error and returns ok=false with the exit code to use.
func lookupTask(ctx context.Context, st *store.Store, ref TaskRef, errOut io.Writer) (task service.Task, code int, ok bool) {
	st.Mount(ctx)
	if reportStoreError(st, errOut) {
		return service.Task{}, exitcode.BackendError, false
	}

	task, err := ResolveTask(st, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}
	return task, exitcode.Success, true
}
