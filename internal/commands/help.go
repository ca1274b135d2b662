package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskwiz/internal/config"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskwiz help [command]" }
func (c *HelpCmd) NeedsAuth() bool    { return false }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	switch len(args) {
	case 0:
		fmt.Fprint(out, helpText)
		return exitcode.Success
	case 1:
	default:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	cmd, err := DefaultRegistry.Lookup(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(out, "Usage: %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
	}
	if cmd.NeedsAuth() {
		fmt.Fprintln(out, "Requires a signed-in session.")
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskwiz                                         List tasks
  taskwiz list [common flags] [--status <status>] [--search <text>] [--json]
  taskwiz add [common flags] --description <text> <title...>
  taskwiz create [common flags] --description <text> <title...>
  taskwiz show [common flags] [--json] <ref>
  taskwiz status [common flags] <ref> <OPEN|IN_PROGRESS|DONE>
  taskwiz start [common flags] <ref>...
  taskwiz done [common flags] <ref>...
  taskwiz rm [common flags] <ref>...
  taskwiz ui [common flags]                       Interactive dashboard
  taskwiz signup [common flags] [--username <name>] [--password <pw>]
  taskwiz signin [common flags] [--username <name>] [--password <pw>]
  taskwiz logout [common flags]
  taskwiz whoami [common flags]
  taskwiz serve [common flags] [--addr <addr>] [--db <path>] [--json-logs]
  taskwiz help [command]
  taskwiz version

A <ref> is the number shown by 'taskwiz list' or a task ID.
Write id:<id> for an ID made only of digits.
Commands may be abbreviated to any unique prefix.

Common flags:
  --config <dir>   Override config directory
  --server <url>   Backend base URL (default http://localhost:3000)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKWIZ_SERVER, TASKWIZ_AUTH_PREFIX, TASKWIZ_TIMEOUT, TASKWIZ_JWT_SECRET
`
