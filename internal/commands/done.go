package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskwiz/internal/config"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/service"
	"taskwiz/internal/tasks"
)

func init() {
	Register(&StatusCmd{})
	Register(&DoneCmd{})
	Register(&StartCmd{})
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return []string{"set"} }
func (c *StatusCmd) Synopsis() string   { return "Set the status of a task" }
func (c *StatusCmd) Usage() string      { return "taskwiz status <ref> <OPEN|IN_PROGRESS|DONE>" }
func (c *StatusCmd) NeedsAuth() bool    { return true }
func (c *StatusCmd) NeedsService() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	switch len(args) {
	case 0:
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	case 1:
		fmt.Fprintln(errOut, "error: status required (OPEN, IN_PROGRESS or DONE)")
		return exitcode.UserError
	case 2:
	default:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[2])
		return exitcode.UserError
	}

	status, ok := service.ParseStatus(args[1])
	if !ok {
		fmt.Fprintf(errOut, "error: invalid status: %s (expected OPEN, IN_PROGRESS or DONE)\n", args[1])
		return exitcode.UserError
	}
	return runSetStatus(ctx, cfg, svc, args[:1], status, out, errOut)
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) Synopsis() string   { return "Mark tasks done" }
func (c *DoneCmd) Usage() string      { return "taskwiz done <ref>..." }
func (c *DoneCmd) NeedsAuth() bool    { return true }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, cfg, svc, args, service.StatusDone, out, errOut)
}

// StartCmd implements the start command.
type StartCmd struct{}

func (c *StartCmd) Name() string       { return "start" }
func (c *StartCmd) Aliases() []string  { return nil }
func (c *StartCmd) Synopsis() string   { return "Mark tasks in progress" }
func (c *StartCmd) Usage() string      { return "taskwiz start <ref>..." }
func (c *StartCmd) NeedsAuth() bool    { return true }
func (c *StartCmd) NeedsService() bool { return true }

func (c *StartCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StartCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, cfg, svc, args, service.StatusInProgress, out, errOut)
}

// runSetStatus resolves every ref first, then updates them in order.
// It stops at the first failure.
func runSetStatus(ctx context.Context, cfg *config.Config, svc service.Service, args []string, status service.Status, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	store := newStore(cfg, svc)
	targets, err := newTaskResolver(store).resolveAll(ctx, refs)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, t := range targets {
		if _, err := store.UpdateStatus(ctx, t.ID, status); err != nil {
			return reportError(errOut, err)
		}
	}

	notify(cfg, out, tasks.MsgStatusUpdated)
	return exitcode.Success
}
