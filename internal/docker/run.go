package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dcat-launcher/internal/runtime"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/moby/term"
)

// RunContainer creates, attaches, and starts a container for the given
// image, then blocks until it exits. The container's exit code is
// returned; a non-nil error means the runtime could not start or track
// the container at all.
func (c *Client) RunContainer(ctx context.Context, opts *runtime.RunContainerOptions) (int64, error) {
	stdinFd, stdinIsTerm := term.GetFdInfo(os.Stdin)
	useTTY := opts.Interactive && stdinIsTerm

	config := &container.Config{
		Image:        opts.ImageName,
		Env:          opts.Env,
		Tty:          useTTY,
		OpenStdin:    opts.Interactive,
		StdinOnce:    opts.Interactive,
		AttachStdin:  opts.Interactive,
		AttachStdout: true,
		AttachStderr: true,
		Labels: map[string]string{
			"managed_by": "dcat-launcher",
		},
	}

	hostConfig := &container.HostConfig{
		AutoRemove: opts.AutoRemove,
		ExtraHosts: opts.ExtraHosts,
	}

	c.logger.Debug().
		Str("image", opts.ImageName).
		Str("name", opts.ContainerName).
		Bool("tty", useTTY).
		Strs("extra_hosts", opts.ExtraHosts).
		Msg("Creating container")

	resp, err := c.docker.ContainerCreate(ctx, config, hostConfig, nil, nil, opts.ContainerName)
	if err != nil {
		return -1, &runtime.RunError{
			Image: opts.ImageName,
			Err:   fmt.Errorf("failed to create container: %w", err),
		}
	}
	containerID := resp.ID

	attach, err := c.docker.ContainerAttach(ctx, containerID, dockertypes.ContainerAttachOptions{
		Stream: true,
		Stdin:  opts.Interactive,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		c.removeContainer(containerID)
		return -1, &runtime.RunError{
			Image: opts.ImageName,
			Err:   fmt.Errorf("failed to attach to container: %w", err),
		}
	}
	defer attach.Close()

	// With AutoRemove the wait must be registered before the container
	// starts, or the removal can race the wait and drop the status.
	statusCh, errCh := c.docker.ContainerWait(ctx, containerID, container.WaitConditionNextExit)

	if err := c.docker.ContainerStart(ctx, containerID, dockertypes.ContainerStartOptions{}); err != nil {
		c.removeContainer(containerID)
		return -1, &runtime.RunError{
			Image: opts.ImageName,
			Err:   fmt.Errorf("failed to start container: %w", err),
		}
	}

	c.logger.Debug().Str("container_id", containerID).Msg("Container started")

	if useTTY {
		state, err := term.SetRawTerminal(stdinFd)
		if err == nil {
			defer term.RestoreTerminal(stdinFd, state)
		}
		c.resizeLoop(ctx, containerID)
	}

	if opts.Interactive {
		go func() {
			io.Copy(attach.Conn, os.Stdin)
			attach.CloseWrite()
		}()
	}

	outputDone := make(chan error, 1)
	go func() {
		var err error
		if useTTY {
			_, err = io.Copy(os.Stdout, attach.Reader)
		} else {
			_, err = stdcopy.StdCopy(os.Stdout, os.Stderr, attach.Reader)
		}
		outputDone <- err
	}()

	select {
	case status := <-statusCh:
		// Drain trailing output before reporting the exit code. The
		// attach stream hits EOF once the container is gone.
		if err := <-outputDone; err != nil && err != io.EOF {
			c.logger.Debug().Err(err).Msg("Output stream ended with error")
		}

		if status.Error != nil {
			return status.StatusCode, &runtime.RunError{
				Image: opts.ImageName,
				Err:   fmt.Errorf("container wait: %s", status.Error.Message),
			}
		}

		c.logger.Debug().
			Str("container_id", containerID).
			Int64("status_code", status.StatusCode).
			Msg("Container exited")
		return status.StatusCode, nil

	case err := <-errCh:
		return -1, &runtime.RunError{
			Image: opts.ImageName,
			Err:   fmt.Errorf("error waiting for container: %w", err),
		}

	case <-ctx.Done():
		// Interrupt: ask the daemon to stop the container; AutoRemove
		// handles the rest.
		c.stopContainer(containerID)
		return -1, &runtime.RunError{Image: opts.ImageName, Err: ctx.Err()}
	}
}

// resizeLoop keeps the container's TTY sized to the invoking terminal.
func (c *Client) resizeLoop(ctx context.Context, containerID string) {
	outFd, _ := term.GetFdInfo(os.Stdout)

	resize := func() {
		ws, err := term.GetWinsize(outFd)
		if err != nil {
			return
		}
		c.docker.ContainerResize(ctx, containerID, dockertypes.ResizeOptions{
			Height: uint(ws.Height),
			Width:  uint(ws.Width),
		})
	}
	resize()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-sigCh:
				resize()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// stopContainer asks the daemon to stop a container, detached from the
// cancelled command context.
func (c *Client) stopContainer(containerID string) {
	stopCtx := context.Background()
	timeoutSeconds := 10
	if err := c.docker.ContainerStop(stopCtx, containerID, container.StopOptions{Timeout: &timeoutSeconds}); err != nil {
		c.logger.Warn().Err(err).Str("container_id", containerID).Msg("Failed to stop container")
	}
}

// removeContainer cleans up a container that never started. AutoRemove
// only applies once a container has run, so the failed-start path has
// to remove it explicitly.
func (c *Client) removeContainer(containerID string) {
	err := c.docker.ContainerRemove(context.Background(), containerID, dockertypes.ContainerRemoveOptions{
		RemoveVolumes: true,
		Force:         true,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("container_id", containerID).Msg("Failed to remove container")
	}
}
