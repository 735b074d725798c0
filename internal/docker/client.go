package docker

import (
	"context"
	"fmt"
	"io"
	"os"

	"dcat-launcher/internal/config"
	"dcat-launcher/internal/runtime"
	"dcat-launcher/pkg/logger"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/term"
)

// Client wraps the Docker API client
type Client struct {
	docker *client.Client
	config *config.DockerConfig
	logger *logger.Logger
}

// NewClient creates a new Docker client. The daemon address comes from
// the configuration, which defaults to DOCKER_HOST or the local socket.
func NewClient(cfg *config.DockerConfig, logger *logger.Logger) (runtime.RuntimeClient, error) {
	opts := []client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}
	if cfg.Host != "" {
		opts = append(opts, client.WithHost(cfg.Host))
	}

	dockerClient, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Client{
		docker: dockerClient,
		config: cfg,
		logger: logger,
	}, nil
}

// Close closes the Docker client
func (c *Client) Close() error {
	return c.docker.Close()
}

// Ping checks Docker daemon connectivity
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.docker.Ping(ctx)
	return err
}

// BuildImage builds the target image from its on-disk context. The
// daemon's build output is streamed verbatim to stderr; a failure
// surfaces as a runtime.BuildError carrying the daemon's status code.
func (c *Client) BuildImage(ctx context.Context, opts *runtime.BuildImageOptions) error {
	c.logger.Debug().
		Str("image", opts.ImageName).
		Str("context", opts.ContextPath).
		Str("dockerfile", opts.Dockerfile).
		Bool("no_cache", opts.NoCache).
		Msg("Building target image")

	if c.config.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.BuildTimeout)
		defer cancel()
	}

	buildContext, err := archive.TarWithOptions(opts.ContextPath, &archive.TarOptions{})
	if err != nil {
		return &runtime.BuildError{
			Image: opts.ImageName,
			Err:   fmt.Errorf("failed to create build context: %w", err),
		}
	}
	defer buildContext.Close()

	dockerfile := opts.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}

	buildOptions := dockertypes.ImageBuildOptions{
		Dockerfile: dockerfile,
		Tags:       []string{opts.ImageName},
		NoCache:    opts.NoCache,
		Remove:     true,
		PullParent: opts.Pull,
		Labels:     opts.Labels,
	}

	resp, err := c.docker.ImageBuild(ctx, buildContext, buildOptions)
	if err != nil {
		return &runtime.BuildError{
			Image: opts.ImageName,
			Err:   fmt.Errorf("build request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if err := streamBuildOutput(resp.Body); err != nil {
		berr := &runtime.BuildError{Image: opts.ImageName, Err: err}
		if jerr, ok := err.(*jsonmessage.JSONError); ok {
			berr.Code = jerr.Code
		}
		return berr
	}

	c.logger.Info().Str("image", opts.ImageName).Msg("Successfully built image")
	return nil
}

// RemoveImage removes a built image from the daemon's store
func (c *Client) RemoveImage(ctx context.Context, imageName string) error {
	_, err := c.docker.ImageRemove(ctx, imageName, dockertypes.ImageRemoveOptions{
		Force:         true,
		PruneChildren: true,
	})
	if err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// streamBuildOutput renders the daemon's JSON build stream to stderr.
// The daemon reports build failures as error messages inside the
// stream, which jsonmessage turns into a *jsonmessage.JSONError.
func streamBuildOutput(body io.Reader) error {
	fd, isTerm := term.GetFdInfo(os.Stderr)
	return jsonmessage.DisplayJSONMessagesStream(body, os.Stderr, fd, isTerm, nil)
}
