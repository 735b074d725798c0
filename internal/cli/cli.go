// Package cli defines the launcher's command tree. The original
// workflow was one fixed script per analysis tool; here each tool is a
// named target of the same binary, with the per-target behavior still
// fixed at authoring time.
package cli

import (
	"context"
	"os/signal"
	"syscall"

	"dcat-launcher/internal/config"
	"dcat-launcher/internal/docker"
	"dcat-launcher/internal/launcher"
	"dcat-launcher/internal/runtime"
	"dcat-launcher/pkg/logger"

	"github.com/alecthomas/kong"
)

// Represents the root command for the launcher.
var RootCmd struct {
	Quiet  bool `short:"q" help:"Suppress informational output."`
	Debug  bool `short:"d" help:"Enable debug output."`
	DryRun bool `help:"Log the planned build and run requests without invoking the container runtime."`
	NoPull bool `help:"Do not pull newer base image layers during the build."`

	Run     RunCmd     `cmd:"" help:"Build a target image from scratch and run it interactively."`
	Build   BuildCmd   `cmd:"" help:"Build a target image without running it."`
	List    ListCmd    `cmd:"" help:"List the available targets."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments and runs the selected subcommand. The bound context
// is cancelled on SIGINT/SIGTERM so an interrupted run can stop its
// container before exiting.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name("dcat-launcher"),
		kong.Description("Builds and runs the DCAT analysis containers against a host-resident SPARQL endpoint."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	return kongCtx.Run()
}

// app bundles the pieces a subcommand needs once flags are parsed.
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	runtime  runtime.RuntimeClient
	launcher *launcher.Launcher
}

// setup loads configuration, configures logging, and connects to the
// container runtime. Callers must Close the returned app.
func setup(needRuntime bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if RootCmd.NoPull {
		cfg.Docker.PullBaseImages = false
	}

	if RootCmd.Debug {
		cfg.Logger.Level = "debug"
	} else if RootCmd.Quiet {
		cfg.Logger.Level = "warn"
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})

	a := &app{cfg: cfg, logger: log}

	if needRuntime {
		rt, err := docker.NewClient(&cfg.Docker, log)
		if err != nil {
			return nil, err
		}
		a.runtime = rt
	}

	a.launcher = launcher.New(a.runtime, cfg, log)
	a.launcher.DryRun = RootCmd.DryRun
	return a, nil
}

func (a *app) Close() {
	if a.runtime != nil {
		a.runtime.Close()
	}
}
