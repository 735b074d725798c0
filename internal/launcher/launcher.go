// Package launcher implements the build-then-run sequence for a launch
// target: request a fresh, cache-disabled image build, and on success
// run the image interactively with auto-removal. Build failure is
// terminal; the run step is never reached.
package launcher

import (
	"context"
	"fmt"
	"strings"

	"dcat-launcher/internal/config"
	"dcat-launcher/internal/runtime"
	"dcat-launcher/internal/target"
	"dcat-launcher/pkg/logger"

	"github.com/google/uuid"
)

// Launcher drives the container runtime for one target at a time.
type Launcher struct {
	runtime runtime.RuntimeClient
	cfg     *config.Config
	logger  *logger.Logger

	// DryRun logs the planned requests without touching the daemon.
	DryRun bool
}

// New creates a Launcher backed by the given runtime client.
func New(rt runtime.RuntimeClient, cfg *config.Config, logger *logger.Logger) *Launcher {
	return &Launcher{
		runtime: rt,
		cfg:     cfg,
		logger:  logger,
	}
}

// Build builds the target's image with caching disabled. The fresh
// build is deliberate: the analysis tools are edited and re-run in a
// tight loop, and a stale layer cache has burned enough time to not be
// worth it.
func (l *Launcher) Build(ctx context.Context, t target.Target) error {
	if err := l.validate(t); err != nil {
		return err
	}

	opts := l.buildOptions(t)

	if l.DryRun {
		l.logger.Info().
			Str("image", opts.ImageName).
			Str("context", opts.ContextPath).
			Bool("no_cache", opts.NoCache).
			Msg("Dry run: would build image")
		return nil
	}

	l.logger.Info().Str("image", opts.ImageName).Msg("Building image")
	return l.runtime.BuildImage(ctx, opts)
}

// Launch builds the target's image and, on success, runs it
// interactively. The returned error carries the exit code to
// propagate: the build's status code on build failure, the container's
// exit code when the run finishes non-zero.
func (l *Launcher) Launch(ctx context.Context, t target.Target) error {
	if err := l.Build(ctx, t); err != nil {
		return err
	}

	opts := l.runOptions(t)

	if l.DryRun {
		l.logger.Info().
			Str("image", opts.ImageName).
			Str("name", opts.ContainerName).
			Bool("interactive", opts.Interactive).
			Bool("auto_remove", opts.AutoRemove).
			Strs("extra_hosts", opts.ExtraHosts).
			Msg("Dry run: would run container")
		return nil
	}

	l.logger.Info().
		Str("image", opts.ImageName).
		Str("name", opts.ContainerName).
		Msg("Running container")

	code, err := l.runtime.RunContainer(ctx, opts)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Target: t.Name, Code: int(code)}
	}
	return nil
}

func (l *Launcher) validate(t target.Target) error {
	if l.DryRun {
		// The context may not exist where a dry run is inspected.
		return nil
	}
	return t.Validate(l.cfg.Launcher.ContextRoot)
}

func (l *Launcher) buildOptions(t target.Target) *runtime.BuildImageOptions {
	return &runtime.BuildImageOptions{
		ImageName:   t.Image,
		ContextPath: t.ResolveContext(l.cfg.Launcher.ContextRoot),
		Dockerfile:  t.DockerfileName(),
		NoCache:     true,
		Pull:        l.cfg.Docker.PullBaseImages,
		Labels: map[string]string{
			"launcher.target": t.Name,
		},
	}
}

func (l *Launcher) runOptions(t target.Target) *runtime.RunContainerOptions {
	opts := &runtime.RunContainerOptions{
		ImageName:     t.Image,
		ContainerName: l.containerName(t),
		Interactive:   true,
		AutoRemove:    true,
	}

	if t.NeedsHostGateway {
		alias := l.cfg.Launcher.HostAlias
		gateway := l.cfg.Launcher.HostGateway
		if alias != "" && gateway != "" {
			opts.ExtraHosts = []string{fmt.Sprintf("%s:%s", alias, gateway)}
		}
	}

	if t.EndpointEnv != "" && l.cfg.Launcher.SPARQLEndpoint != "" {
		opts.Env = append(opts.Env, fmt.Sprintf("%s=%s", t.EndpointEnv, l.cfg.Launcher.SPARQLEndpoint))
	}

	return opts
}

// containerName returns a unique container name for this invocation.
// AutoRemove deletes exited containers asynchronously, so a fixed name
// can collide with its own previous run.
func (l *Launcher) containerName(t target.Target) string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return l.cfg.Docker.ContainerPrefix + t.Name + "-" + suffix
}
