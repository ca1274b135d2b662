package commands

import (
	"fmt"
	"io"

	"taskwiz/internal/config"
	"taskwiz/internal/errors"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/service"
	"taskwiz/internal/session"
	"taskwiz/internal/tasks"
)

// reportError prints err the way every command does and returns the exit
// code for it. A rejected token is reported as a missing session.
func reportError(errOut io.Writer, err error) int {
	var e *errors.Error
	if errors.As(err, &e) && e.Kind == errors.KindUnauthenticated && e.Status != 0 {
		fmt.Fprintf(errOut, "error: %s\n", session.MsgNotSignedIn)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: %s\n", err)
	return exitcode.FromError(err)
}

// notify prints an informational line unless --quiet is set.
func notify(cfg *config.Config, out io.Writer, msg string) {
	if !cfg.Quiet {
		fmt.Fprintln(out, msg)
	}
}

func newStore(cfg *config.Config, svc service.Service) *tasks.Store {
	return tasks.NewStore(svc, cfg.Log())
}
