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
)

func init() {
	Register(&SignInCmd{})
	Register(&SignUpCmd{})
}

// SignInCmd implements the signin command.
type SignInCmd struct {
	username string
	password string
}

func (c *SignInCmd) Name() string       { return "signin" }
func (c *SignInCmd) Aliases() []string  { return []string{"login"} }
func (c *SignInCmd) Synopsis() string   { return "Sign in and store the session" }
func (c *SignInCmd) Usage() string      { return "taskwiz signin [--username <name>] [--password <pw>]" }
func (c *SignInCmd) NeedsAuth() bool    { return false }
func (c *SignInCmd) NeedsService() bool { return true }

func (c *SignInCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *SignInCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	username, password, err := newPrompter(errOut).credentials(c.username, c.password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	mgr, err := session.NewManager(svc, cfg.Storage(), cfg.Log())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	s, err := mgr.SignIn(ctx, username, password)
	if err != nil {
		// Bad credentials come back as 401; show the server's message.
		fmt.Fprintf(errOut, "error: %s\n", errors.MessageOf(err, session.MsgSignInFailed))
		return exitcode.FromError(err)
	}

	notify(cfg, out, "signed in as "+s.Username)
	return exitcode.Success
}

// SignUpCmd implements the signup command.
type SignUpCmd struct {
	username string
	password string
}

func (c *SignUpCmd) Name() string       { return "signup" }
func (c *SignUpCmd) Aliases() []string  { return []string{"register"} }
func (c *SignUpCmd) Synopsis() string   { return "Create an account" }
func (c *SignUpCmd) Usage() string      { return "taskwiz signup [--username <name>] [--password <pw>]" }
func (c *SignUpCmd) NeedsAuth() bool    { return false }
func (c *SignUpCmd) NeedsService() bool { return true }

func (c *SignUpCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *SignUpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	username, password, err := newPrompter(errOut).credentials(c.username, c.password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	mgr, err := session.NewManager(svc, cfg.Storage(), cfg.Log())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	user, err := mgr.SignUp(ctx, username, password)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) && len(e.Fields) > 1 {
			for _, f := range e.Fields {
				fmt.Fprintf(errOut, "error: %s\n", f.Message)
			}
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %s\n", errors.MessageOf(err, session.MsgSignUpFailed))
		return exitcode.FromError(err)
	}

	notify(cfg, out, fmt.Sprintf("account created for %s (run: taskwiz signin)", user.Username))
	return exitcode.Success
}
