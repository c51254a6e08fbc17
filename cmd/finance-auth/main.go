package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/target/finance-auth-client/config"
	"github.com/target/finance-auth-client/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

// errQuietFailure signals a negative answer (e.g. has-role) that should set a
// non-zero exit status without logging an error.
var errQuietFailure = errors.New("negative result")

func main() {
	cfg, err := bootstrap.LoadConfig()
	logger := bootstrap.InitLogger(os.Stderr, cfg.Logging)
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		if !errors.Is(runErr, errQuietFailure) {
			logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		}
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in through the identity provider in your browser",
			run:         runLogin,
		},
		"register": {
			name:        "register",
			description: "Create an account at the identity provider, then sign in",
			run:         runRegister,
		},
		"logout": {
			name:        "logout",
			description: "Clear the local session and end the provider session",
			run:         runLogout,
		},
		"status": {
			name:        "status",
			description: "Show whether the local session is authenticated",
			run:         runStatus,
		},
		"whoami": {
			name:        "whoami",
			description: "Print the signed-in user's profile",
			run:         runWhoAmI,
		},
		"has-role": {
			name:        "has-role",
			description: "Exit 0 when the cached profile has the given role",
			run:         runHasRole,
		},
		"token": {
			name:        "token",
			description: "Print the access token of an authenticated session",
			run:         runToken,
		},
		"serve": {
			name:        "serve",
			description: "Run the local sign-in UI until interrupted",
			run:         runServe,
		},
		"config": {
			name:        "config",
			description: "Print the resolved identity provider configuration",
			run:         runConfig,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: finance-auth <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}
