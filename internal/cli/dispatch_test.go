package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"taskwiz/internal/cli"
	"taskwiz/internal/commands"
	"taskwiz/internal/config"
	"taskwiz/internal/errors"
	"taskwiz/internal/exitcode"
	"taskwiz/internal/service"
	"taskwiz/internal/storage"
	"taskwiz/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	var outBuf, errBuf bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// signedInDir returns a config directory holding a session for alice.
func signedInDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewFileStore(dir)
	if err := store.Set(storage.KeyToken, "token-alice"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(storage.KeyUsername, "alice"); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskwiz 0.1.0\n" {
		t.Errorf("expected 'taskwiz 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--status")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -status\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NotSignedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	called := false
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		called = true
		return svc, nil
	}

	for _, name := range []string{"list", "add", "show", "status", "done", "start", "rm", "ui", "whoami"} {
		_, stderr, code := run(t, factory, name, "--config", t.TempDir())

		if code != exitcode.AuthError {
			t.Errorf("%s: expected exit code %d, got %d", name, exitcode.AuthError, code)
		}
		if stderr != "error: not signed in (run: taskwiz signin)\n" {
			t.Errorf("%s: unexpected stderr %q", name, stderr)
		}
	}
	if called || svc.TotalCalls() != 0 {
		t.Error("backend should not be reached without a session")
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	home := filepath.Join(xdg, config.AppName)
	store := storage.NewFileStore(home)
	if err := store.Set(storage.KeyToken, "token-alice"); err != nil {
		t.Fatal(err)
	}

	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", "2 liters, whole")

	stdout, stderr, code := run(t, testFactory(svc))

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "   1  Open         Buy milk\n1 task(s) found\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_InterspersedFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	dir := signedInDir(t)

	stdout, stderr, code := run(t, testFactory(svc), "add", "Buy", "milk", "-d", "2 liters, whole", "--config", dir)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "Task created successfully\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	got := svc.Tasks()
	if len(got) != 1 || got[0].Title != "Buy milk" {
		t.Errorf("unexpected tasks: %+v", got)
	}
}

func TestDispatcher_DoubleDashEndsFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	dir := signedInDir(t)

	_, stderr, code := run(t, testFactory(svc), "add", "--config", dir, "-d", "starts with a dash", "--", "-1", "day")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if got := svc.Tasks(); len(got) != 1 || got[0].Title != "-1 day" {
		t.Errorf("unexpected tasks: %+v", got)
	}
}

func TestDispatcher_ServerFlag(t *testing.T) {
	var seen string
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		seen = cfg.Server
		return testutil.NewFakeService(), nil
	}

	_, _, code := run(t, factory, "list", "--config", signedInDir(t), "--server", " http://tasks.example.com/ ")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if seen != "http://tasks.example.com" {
		t.Errorf("server override not applied: %q", seen)
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stderr string
	}{
		{"unauthenticated", errors.Unauthenticated("no token"), exitcode.AuthError, "error: not signed in (run: taskwiz signin)\n"},
		{"other", errors.New("boom"), exitcode.BackendError, "error: backend error: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
				return nil, tt.err
			}
			_, stderr, code := run(t, factory, "list", "--config", signedInDir(t))

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
		})
	}
}

func TestDispatcher_SignInWithoutSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice_smith", "Secret#123")
	dir := t.TempDir()

	stdout, stderr, code := run(t, testFactory(svc), "signin", "--config", dir, "-u", "alice_smith", "-p", "Secret#123")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "signed in as alice_smith\n" {
		t.Errorf("unexpected stdout: %q", stdout)
	}

	// The stored session now satisfies the guard.
	stdout, _, code = run(t, testFactory(svc), "whoami", "--config", dir)
	if code != exitcode.Success || stdout != "alice_smith\n" {
		t.Errorf("whoami after signin: code %d, stdout %q", code, stdout)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--config", signedInDir(t), "--debug")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "dispatch") || !strings.Contains(stderr, "command=list") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

func TestDispatcher_CommandPrefix(t *testing.T) {
	stdout, _, code := run(t, nil, "who", "--config", signedInDir(t))
	if code != exitcode.Success || stdout != "alice\n" {
		t.Errorf("prefix dispatch: code %d, stdout %q", code, stdout)
	}

	_, stderr, code := run(t, nil, "st", "--config", signedInDir(t))
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: ambiguous command: st (start, status)\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
