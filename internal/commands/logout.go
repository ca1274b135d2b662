package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskwiz/internal/config"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/service"
	"taskwiz/internal/session"
)

func init() {
	Register(&LogoutCmd{})
	Register(&WhoamiCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return []string{"signout"} }
func (c *LogoutCmd) Synopsis() string   { return "Remove the stored session" }
func (c *LogoutCmd) Usage() string      { return "taskwiz logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool    { return false }
func (c *LogoutCmd) NeedsService() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mgr, err := session.NewManager(nil, cfg.Storage(), cfg.Log())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !mgr.IsAuthenticated() {
		notify(cfg, out, "not signed in")
		return exitcode.Success
	}

	if err := mgr.Logout(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	notify(cfg, out, "ok")
	return exitcode.Success
}

// WhoamiCmd prints the signed-in username.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return nil }
func (c *WhoamiCmd) Synopsis() string   { return "Print the signed-in user" }
func (c *WhoamiCmd) Usage() string      { return "taskwiz whoami" }
func (c *WhoamiCmd) NeedsAuth() bool    { return true }
func (c *WhoamiCmd) NeedsService() bool { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	mgr, err := session.NewManager(nil, cfg.Storage(), cfg.Log())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if err := mgr.RequireAuth(); err != nil {
		return reportError(errOut, err)
	}
	fmt.Fprintln(out, mgr.Current().Username)
	return exitcode.Success
}
