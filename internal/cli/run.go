package cli

import (
	"context"

	"dcat-launcher/internal/target"
)

// Represents the 'dcat-launcher run' command.
type RunCmd struct {
	Target string `arg:"" help:"Target to build and run."`
}

// Executes the run command: a fresh cache-disabled build followed by an
// interactive, auto-removed run of the built image.
func (c *RunCmd) Run(ctx context.Context) error {
	t, err := target.Lookup(c.Target)
	if err != nil {
		return err
	}

	a, err := setup(!RootCmd.DryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.launcher.Launch(ctx, t)
}
