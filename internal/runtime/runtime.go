// Package runtime defines the seam between the launcher and the
// container runtime it delegates to. The launcher talks only to
// RuntimeClient, so tests can substitute a recording fake and the
// docker implementation stays swappable.
package runtime

import "context"

// BuildImageOptions contains options for building a target image
type BuildImageOptions struct {
	ImageName   string
	ContextPath string
	Dockerfile  string
	NoCache     bool
	Pull        bool
	Labels      map[string]string
}

// RunContainerOptions contains options for running a built image
type RunContainerOptions struct {
	ImageName     string
	ContainerName string
	Interactive   bool
	AutoRemove    bool
	Env           []string

	// ExtraHosts holds hostname:target mappings added to the
	// container's /etc/hosts, e.g. "host.docker.internal:host-gateway".
	ExtraHosts []string
}

// RuntimeClient is the container runtime as consumed by the launcher.
// RunContainer blocks until the container exits and returns its exit
// code; a non-nil error means the runtime could not start or track the
// container at all.
type RuntimeClient interface {
	BuildImage(ctx context.Context, opts *BuildImageOptions) error
	RunContainer(ctx context.Context, opts *RunContainerOptions) (int64, error)
	RemoveImage(ctx context.Context, imageName string) error
	Ping(ctx context.Context) error
	Close() error
}
