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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete tasks" }
func (c *RmCmd) Usage() string      { return "taskwiz rm <ref>..." }
func (c *RmCmd) NeedsAuth() bool    { return true }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	store := newStore(cfg, svc)

	// Resolve all refs against one snapshot before deleting, so numbers
	// do not shift under the user.
	targets, err := newTaskResolver(store).resolveAll(ctx, refs)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, t := range targets {
		if err := store.Remove(ctx, t.ID); err != nil {
			return reportError(errOut, err)
		}
	}

	notify(cfg, out, tasks.MsgDeleted)
	return exitcode.Success
}
