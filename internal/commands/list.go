package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskwiz/internal/config"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/output"
	"taskwiz/internal/service"
	"taskwiz/internal/tasks"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskwiz` (no args) and `taskwiz list [filters]`.
type ListCmd struct {
	status string
	search string
	json   bool
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskwiz list [--status <status>] [--search <text>] [--json]" }
func (c *ListCmd) NeedsAuth() bool    { return true }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "q", "", "")
	fs.BoolVar(&c.json, "json", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	var patch tasks.FilterPatch
	if c.status != "" {
		st, ok := service.ParseStatus(c.status)
		if !ok {
			fmt.Fprintf(errOut, "error: invalid status: %s (expected OPEN, IN_PROGRESS or DONE)\n", c.status)
			return exitcode.UserError
		}
		patch.Status = &st
	}
	if c.search != "" {
		search := c.search
		patch.Search = &search
	}

	store := newStore(cfg, svc)

	// Numbers always refer to the unfiltered list, so that a number shown
	// under a filter can be passed to done/rm/show as-is.
	all, err := store.Load(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	visible := all
	if patch.Status != nil || patch.Search != nil {
		if _, err := store.SetFilters(ctx, patch); err != nil {
			return reportError(errOut, err)
		}
		visible = store.Visible()
	}

	if c.json {
		if err := output.FormatJSON(out, visible); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	}

	if len(visible) == 0 {
		notify(cfg, out, "no tasks found")
		return exitcode.Success
	}

	if !cfg.Quiet {
		output.FormatFilters(out, store.Filters())
	}
	positions := make(map[string]int, len(all))
	for i, t := range all {
		positions[t.ID] = i + 1
	}
	for _, t := range visible {
		output.FormatTask(out, positions[t.ID], t)
	}
	if !cfg.Quiet {
		output.FormatCount(out, len(visible))
	}
	return exitcode.Success
}
