package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"taskwiz/internal/config"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/service"
	"taskwiz/internal/tasks"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return nil }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskwiz add --description <text> <title...>" }
func (c *AddCmd) NeedsAuth() bool    { return true }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.description, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	description string
}

func (c *CreateCmd) Name() string       { return "create" }
func (c *CreateCmd) Aliases() []string  { return nil }
func (c *CreateCmd) Synopsis() string   { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string      { return "taskwiz create --description <text> <title...>" }
func (c *CreateCmd) NeedsAuth() bool    { return true }
func (c *CreateCmd) NeedsService() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.description, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
// Validation happens in the store, before any request is sent.
func runAdd(ctx context.Context, cfg *config.Config, svc service.Service, description string, args []string, out, errOut io.Writer) int {
	store := newStore(cfg, svc)
	_, err := store.Create(ctx, service.NewTask{
		Title:       strings.Join(args, " "),
		Description: description,
	})
	if err != nil {
		return reportError(errOut, err)
	}

	notify(cfg, out, tasks.MsgCreated)
	return exitcode.Success
}
