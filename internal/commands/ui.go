package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskwiz/internal/config"
	"taskwiz/internal/errors"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/service"
	"taskwiz/internal/session"
	"taskwiz/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// RunDashboard runs the interactive dashboard. Tests replace it.
var RunDashboard = tui.Run

// UICmd opens the interactive dashboard.
type UICmd struct{}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"dashboard"} }
func (c *UICmd) Synopsis() string   { return "Open the interactive dashboard" }
func (c *UICmd) Usage() string      { return "taskwiz ui" }
func (c *UICmd) NeedsAuth() bool    { return true }
func (c *UICmd) NeedsService() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintln(errOut, "error: ui takes no arguments")
		return exitcode.UserError
	}

	mgr, err := session.NewManager(nil, cfg.Storage(), cfg.Log())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := RunDashboard(ctx, svc, mgr.Current().Username); err != nil {
		if errors.KindOf(err) == errors.KindUnauthenticated {
			fmt.Fprintf(errOut, "error: %s\n", session.MsgNotSignedIn)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
