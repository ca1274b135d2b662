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
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct {
	json bool
}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"info"} }
func (c *ShowCmd) Synopsis() string   { return "Show task details" }
func (c *ShowCmd) Usage() string      { return "taskwiz show [--json] <ref>" }
func (c *ShowCmd) NeedsAuth() bool    { return true }
func (c *ShowCmd) NeedsService() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.json, "json", false, "")
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
	ref, err := ParseTaskRef(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	store := newStore(cfg, svc)
	task, err := newTaskResolver(store).resolve(ctx, ref)
	if err != nil {
		return reportError(errOut, err)
	}
	// Positional refs come from the list; fetch the detail view.
	if ref.IsNum() {
		if task, err = store.Get(ctx, task.ID); err != nil {
			return reportError(errOut, err)
		}
	}

	if c.json {
		if err := output.FormatJSON(out, task); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
