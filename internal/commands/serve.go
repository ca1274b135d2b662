package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskwiz/internal/config"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/logging"
	"taskwiz/internal/server"
	"taskwiz/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the reference REST backend.
type ServeCmd struct {
	addr     string
	dbPath   string
	jsonLogs bool
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the task backend" }
func (c *ServeCmd) Usage() string      { return "taskwiz serve [--addr <addr>] [--db <path>] [--json-logs]" }
func (c *ServeCmd) NeedsAuth() bool    { return false }
func (c *ServeCmd) NeedsService() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.dbPath, "db", "", "")
	fs.BoolVar(&c.jsonLogs, "json-logs", false, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.Listen
	}
	dbPath := c.dbPath
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	// The server always logs requests; --debug adds the detail.
	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	log := logging.New(errOut, level)
	if c.jsonLogs {
		log = logging.NewJSON(errOut, level)
	}

	db, err := server.Open(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	defer db.Close()

	if cfg.JWTSecret == "" {
		log.Warn("no jwt_secret configured; tokens will not survive a restart")
	}
	tokens, err := server.NewTokens(cfg.JWTSecret, server.DefaultTokenTTL)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	log.Info("database ready", "path", dbPath)
	if err := server.New(db, tokens, log).ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
